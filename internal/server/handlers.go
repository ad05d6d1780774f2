package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"thumbgenius/internal/brief"
	"thumbgenius/internal/catalog"
	"thumbgenius/internal/gemini"
	"thumbgenius/internal/generator"
	"thumbgenius/internal/history"
	"thumbgenius/internal/refimage"
)

type apiError struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model,omitempty"`
	Offline bool   `json:"offline"`
}

type optionsResponse struct {
	Options  map[catalog.Kind][]catalog.NamedOption `json:"options"`
	Defaults map[catalog.Kind]string                `json:"defaults"`
}

type hookRequest struct {
	Topic    string `json:"topic"`
	Language string `json:"language"`
}

type hookResponse struct {
	Hook string `json:"hook"`
}

type analyzeRequest struct {
	Image string `json:"image"`
}

type analyzeResponse struct {
	Analysis string `json:"analysis"`
}

// promptRequest is a brief plus an optional reference image as a data URL.
type promptRequest struct {
	brief.Brief
	Image string `json:"image,omitempty"`
}

type historyResponse struct {
	Entries []history.Entry `json:"entries"`
}

var errBadRequest = errors.New("bad request")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Model:   s.modelName,
		Offline: s.gen.Offline(),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	c := s.gen.Catalog()
	out := optionsResponse{
		Options:  make(map[catalog.Kind][]catalog.NamedOption, len(catalog.Kinds)),
		Defaults: c.Defaults(),
	}
	for _, kind := range catalog.Kinds {
		out.Options[kind] = c.Options(kind)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHook(w http.ResponseWriter, r *http.Request) {
	var req hookRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		s.writeError(w, brief.ErrTopicRequired)
		return
	}
	language, _ := s.gen.Catalog().Resolve(catalog.KindLanguage, req.Language)

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, hookResponse{Hook: s.gen.CatchyHook(ctx, req.Topic, language)})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var (
		img *gemini.ImageInput
		err error
	)
	if isMultipart(r) {
		img, err = s.readMultipartImage(w, r)
	} else {
		var req analyzeRequest
		if err = s.decodeJSON(w, r, &req); err == nil {
			img, err = s.prepareDataURL(req.Image)
		}
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	if img == nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "missing image"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	writeJSON(w, http.StatusOK, analyzeResponse{Analysis: s.gen.AnalyzeStyle(ctx, *img)})
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var (
		req generator.Request
		err error
	)
	if isMultipart(r) {
		req, err = s.readMultipartPrompt(w, r)
	} else {
		req, err = s.readJSONPrompt(w, r)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	res, err := s.gen.Generate(ctx, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistoryList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, historyResponse{Entries: s.history.List()})
}

func (s *Server) handleHistoryGet(w http.ResponseWriter, r *http.Request) {
	entry, err := s.history.Get(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	s.history.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSettingsGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.drafts.Get())
}

// handleSettingsPut merges the fields present in the body into the draft.
func (s *Server) handleSettingsPut(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	draft, err := s.drafts.Update(func(b *brief.Brief) error {
		next := *b
		if err := json.Unmarshal(raw, &next); err != nil {
			return errors.Join(errBadRequest, err)
		}
		*b = next
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (s *Server) handleSettingsReset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.drafts.Reset())
}

func (s *Server) readJSONPrompt(w http.ResponseWriter, r *http.Request) (generator.Request, error) {
	// Fields left out of the body keep the form defaults, as in the multipart path.
	body := promptRequest{Brief: brief.Defaults(s.gen.Catalog())}
	if err := s.decodeJSON(w, r, &body); err != nil {
		return generator.Request{}, err
	}

	req := generator.Request{Brief: body.Brief}
	if strings.TrimSpace(body.Image) != "" {
		img, err := s.prepareDataURL(body.Image)
		if err != nil {
			return generator.Request{}, err
		}
		req.Image = img
	}
	return req, nil
}

func (s *Server) readMultipartPrompt(w http.ResponseWriter, r *http.Request) (generator.Request, error) {
	img, err := s.readMultipartImage(w, r)
	if err != nil {
		return generator.Request{}, err
	}

	b := brief.Brief{
		Topic:                  r.FormValue("topic"),
		HasText:                true,
		TextMode:               brief.TextMode(r.FormValue("textMode")),
		CustomText:             r.FormValue("customText"),
		Language:               r.FormValue("language"),
		Emotion:                r.FormValue("emotion"),
		Lighting:               r.FormValue("lighting"),
		Composition:            r.FormValue("composition"),
		CameraAngle:            r.FormValue("cameraAngle"),
		ArtStyle:               r.FormValue("artStyle"),
		AspectRatio:            r.FormValue("aspectRatio"),
		ReferenceImageAnalysis: r.FormValue("referenceImageAnalysis"),
	}
	if raw := strings.TrimSpace(r.FormValue("hasText")); raw != "" {
		b.HasText = parseBool(raw)
	}

	return generator.Request{Brief: b, Image: img}, nil
}

// readMultipartImage parses the form and returns the optional "image" file,
// prepared for the vision model. A missing file is not an error.
func (s *Server) readMultipartImage(w http.ResponseWriter, r *http.Request) (*gemini.ImageInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		return nil, errors.Join(errBadRequest, err)
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(errBadRequest, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Join(errBadRequest, err)
	}

	img, err := refimage.Prepare(data, header.Header.Get("Content-Type"), s.imageMaxDim)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *Server) prepareDataURL(value string) (*gemini.ImageInput, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	raw, err := gemini.ParseDataURL(value, "image/jpeg")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(raw.MimeType, "image/") {
		return nil, refimage.ErrNotImage
	}
	img, err := refimage.Prepare(raw.Data, raw.MimeType, s.imageMaxDim)
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, apiError{Error: errorMessage(err)})
}

func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), strings.Contains(err.Error(), "request body too large"):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, brief.ErrTopicRequired),
		errors.Is(err, brief.ErrInvalidTextMode),
		errors.Is(err, catalog.ErrInvalidAspectRatio),
		errors.Is(err, refimage.ErrNotImage),
		errors.Is(err, gemini.ErrInvalidDataURL),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	switch {
	case statusFor(err) == http.StatusRequestEntityTooLarge:
		return "upload too large"
	case errors.Is(err, errBadRequest):
		return "invalid request body"
	}
	return err.Error()
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mediaType, "multipart/")
}

func parseBool(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	if parsed, err := strconv.ParseBool(value); err == nil {
		return parsed
	}
	return value == "yes" || value == "on"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
