package prompts

// InitialScenePrompt opens a new adventure. It takes no parameters.
const InitialScenePrompt = `You are the narrator of a fantasy text adventure game. Begin a brand new adventure for the player.

Write the opening scene in the second person ("You stand..."). Keep it to one or two short paragraphs that set the place, the mood, and a hint of what lies ahead.

Respond with a JSON object containing:
- "sceneDescription": the opening scene narration.
- "imagePrompt": a concise visual description of the scene for an image generator. Describe the setting, lighting, and key objects. Do not mention the player or use the word "you".
- "choices": exactly 3 short actions the player can take next, each an imperative phrase such as "Enter the tower".`

// ContinuationPrompt continues the adventure after the player acts.
// Arguments: numbered scene history, player's chosen action.
const ContinuationPrompt = `You are the narrator of a fantasy text adventure game. Continue the story based on the player's action.

The story so far:
%s

The player chose to: "%s"

Write the next scene in the second person, describing what happens as a result of the player's action. Keep it to one or two short paragraphs and keep it consistent with the story so far.

Respond with a JSON object containing:
- "sceneDescription": the narration of the new scene.
- "imagePrompt": a concise visual description of the new scene for an image generator. Describe the setting, lighting, and key objects. Do not mention the player or use the word "you".
- "choices": exactly 3 new short actions the player can take next, each an imperative phrase. Do not repeat choices offered in earlier scenes.`

// ImageStylePreamble is prepended to every image prompt.
const ImageStylePreamble = "masterpiece, high quality, fantasy art, cinematic lighting."

// BuildImagePrompt prepends the house style to a scene's image prompt.
func BuildImagePrompt(prompt string) string {
	return ImageStylePreamble + " " + prompt
}
