package prompt

import (
	"fmt"
	"strings"

	"thumbgenius/internal/brief"
)

const StyleAnalysisInstruction = `Analyze this image specifically for a Midjourney prompt. DETAILED EXTRACTION REQUIRED:
1. Color Palette (e.g., 'Teal and Orange', 'Cyberpunk Neon', 'Desaturated Earth Tones').
2. Lighting Patterns (e.g., 'Rembrandt', 'Volumetric Fog', 'Rim Lighting').
3. Composition Rules (e.g., 'Rule of Thirds', 'Golden Ratio', 'Symmetrical').

Output a concise summary describing these specific elements so a prompt engineer can replicate the exact 'vibe'.`

const (
	midjourneyVersion = "6.0"
	aiStylize         = 750
	fallbackStylize   = 250
)

func HookInstruction(topic, language string) string {
	return fmt.Sprintf(
		"Generate a short, punchy, high-CTR text overlay (2-4 words max) for a YouTube thumbnail about: \"%s\". Language: %s. Output ONLY the text, no quotes.",
		strings.TrimSpace(topic), strings.TrimSpace(language),
	)
}

// DetailedInstruction is the brief handed to the text model. The reference
// analysis, when present, overrides the lighting and composition choices.
func DetailedInstruction(b brief.Brief, hook string) string {
	var sb strings.Builder
	sb.Grow(2048)

	sb.WriteString("Act as a Lead Prompt Engineer for Midjourney v6.\n")
	sb.WriteString("Your task is to convert the user's brief into a single, comprehensive, and \"Legendary\" grade image prompt.\n\n")

	sb.WriteString("CREATIVE BRIEF:\n")
	writeField(&sb, "Topic", b.Topic)
	writeField(&sb, "Core Emotion", b.Emotion+" (Make it exaggerated, high stakes)")
	writeField(&sb, "Desired Lighting", b.Lighting)
	writeField(&sb, "Composition", b.Composition)
	writeField(&sb, "Camera Angle", b.CameraAngle)
	writeField(&sb, "Art Style", b.ArtStyle)
	sb.WriteString("\n")

	sb.WriteString(styleBlock(b))
	sb.WriteString("\n\n")

	sb.WriteString("INSTRUCTIONS for PROMPT CONSTRUCTION:\n")
	rules := []string{
		fmt.Sprintf("**Subject Focus**: Start by describing the main subject in extreme detail. Focus on the %s expression, eyes, skin texture, and dynamic pose.", b.Emotion),
		fmt.Sprintf("**Environment & Story**: Describe the background details that scream \"%s\". Add atmospheric particles, depth, and context.", b.Topic),
		"**Style Integration**: Seamlessly weave the lighting, camera angle, and art style into the visual description. If a reference analysis is provided, PRIORITIZE its color palette and lighting.",
		"**Text Integration**: " + textInstruction(b, hook),
		`**Technical Polish**: Use keywords like "photorealistic", "octane render", "volumetric fog", "cinematic", "highly detailed".`,
		"**Formatting**: Output ONE single paragraph prompt.",
		"**Parameters**: Append strictly at the end: " + AIParameters(b.AspectRatio),
	}
	for i, rule := range rules {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rule))
	}
	sb.WriteString("\nOutput ONLY the final prompt string.")

	return sb.String()
}

func AIParameters(aspectRatio string) string {
	return fmt.Sprintf("--ar %s --v %s --stylize %d --style raw", aspectRatio, midjourneyVersion, aiStylize)
}

// Fallback assembles a usable prompt locally when the model is unavailable.
func Fallback(b brief.Brief, hook string) string {
	segments := []string{
		fmt.Sprintf("A YouTube thumbnail featuring a %s subject regarding %s", strings.ToLower(b.Emotion), b.Topic),
		"highly detailed, expressive facial features, dynamic action pose",
		fmt.Sprintf("%s, %s", b.CameraAngle, b.ArtStyle),
	}
	if b.HasText {
		segments = append(segments, fmt.Sprintf("large bold text overlay saying \"%s\"", hook))
	}
	if b.ReferenceImageAnalysis != "" {
		segments = append(segments, "style inspired by: "+b.ReferenceImageAnalysis)
	} else {
		segments = append(segments, fmt.Sprintf("%s, %s", b.Lighting, b.Composition))
	}
	segments = append(segments, fmt.Sprintf("--ar %s --v %s --style raw --stylize %d", b.AspectRatio, midjourneyVersion, fallbackStylize))
	return strings.Join(segments, ", ")
}

func styleBlock(b brief.Brief) string {
	if b.ReferenceImageAnalysis != "" {
		return "*** CRITICAL STYLE OVERRIDE ***\n" +
			fmt.Sprintf("The user provided a reference image. You MUST replicate its style based on this analysis: \"%s\".\n", b.ReferenceImageAnalysis) +
			"Ignore the standard Lighting/Composition settings if they conflict with this analysis."
	}
	return fmt.Sprintf("VISUAL STYLE: %s, Hyper-realistic, 8k resolution, Unreal Engine 5 render style, vivid colors, high contrast, ray tracing.", b.ArtStyle)
}

func textInstruction(b brief.Brief, hook string) string {
	if !b.HasText {
		return "Do not include any text overlay."
	}
	return fmt.Sprintf("Include a bold, high-contrast text overlay in the foreground that says \"%s\". Font style: Modern, Impactful, Sans-Serif, glowing edges.", hook)
}

func writeField(sb *strings.Builder, label, value string) {
	sb.WriteString("- " + label + ": " + value + "\n")
}
