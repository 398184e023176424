package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// CommonTopics maps topic names to Google News RSS topic IDs.
var CommonTopics = map[string]string{
	"top_stories":   "CAAqJggKIiBDQkFTRWdvSUwyMHZNRFZxYUdjU0FtVnVHZ0pWVXlnQVAB",
	"world":         "CAAqJggKIiBDQkFTRWdvSUwyMHZNRGs0ZDZIU0FtVnVHZ0pWVXlnQVAB",
	"business":      "CAAqJggKIiBDQkFTRWdvSUwyMHZNRGx6TVdZU0FtVnVHZ0pWVXlnQVAB",
	"technology":    "CAAqJggKIiBDQkFTRWdvSUwyMHZNRFZxYUdjU0FtVnVHZ0pWVXlnQVAB",
	"entertainment": "CAAqJggKIiBDQkFTRWdvSUwyMHZNREpxYW5RU0FtVnVHZ0pWVXlnQVAB",
	"sports":        "CAAqJggKIiBDQkFTRWdvSUwyMHZNRFp1ZEdvU0FtVnVHZ0pWVXlnQVAB",
	"science":       "CAAqJggKIiBDQkFTRWdvSUwyMHZNRFp0Y1RjU0FtVnVHZ0pWVXlnQVAB",
	"health":        "CAAqIQgKIhtDQkFTRGdvSUwyMHZNR3QwTlRFU0FtWnlLQUFQAQ",
	"economy":       "CAAqJggKIiBDQkFTRWdvSUwyMHZNRGx6TVdZU0FtWnlHZ0pGVWlnQVAB",
}

type SelectedTopic struct {
	TopicName string `json:"topic_name"`
	TopicKey  string `json:"topic_key"`
}

// SpecifyTopics asks the model to select the topics from the given set that
// could directly or indirectly affect the sector. Unknown names in the model
// output are dropped. Malformed output yields an empty selection.
func SpecifyTopics(ctx context.Context, gen TextGenerator, sectorName string, topics map[string]string) ([]SelectedTopic, error) {
	if topics == nil {
		topics = CommonTopics
	}

	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}

	prompt := fmt.Sprintf(
		"Select among these topics the most relevant and related ones directly or indirectly that could affect or impact the %s sector. "+
			"Return a JSON list of topic names only. Topics: %v",
		sectorName, names,
	)

	response, err := gen.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("topic selection: %w", err)
	}

	var selectedNames []string
	if err := json.Unmarshal([]byte(cleanJSONArrayResponse(response)), &selectedNames); err != nil {
		return []SelectedTopic{}, nil
	}

	var selected []SelectedTopic
	for _, name := range selectedNames {
		key, ok := topics[name]
		if !ok {
			continue
		}
		selected = append(selected, SelectedTopic{TopicName: name, TopicKey: key})
	}

	return selected, nil
}

// Summarize condenses a news description for later market-study use, keeping
// the description's language.
func Summarize(ctx context.Context, gen TextGenerator, newsTitle, description string) (string, error) {
	prompt := fmt.Sprintf(
		"You are a helpful assistant that summarizes this news description by capturing the important and helpful infos that will be later utilized in market studies, risk assessment and opportunities detections use cases. "+
			"***The summary does not pass 5 lines.*** The news title is %s. Make sure that you are remaining in the same language as the description. Return just the summary, no other or additional text.\n\nDescription: %s",
		newsTitle, description,
	)
	return gen.Generate(ctx, prompt)
}
