package summarizer

import "fmt"

const systemPrompt = "You are the best key-content provider in the world, capable of identifying key points, " +
	"speaker traits, and conversation themes with high accuracy."

const summaryPrompt = `I have a podcast transcript, and I want to extract key news, important facts, and noteworthy insights from it. Your goal is to identify information that can be published as news or shared as significant updates with the news readers. Please analyze the text and provide the following:

1. **Major Announcements, Updates, or Breaking News**:
    - Identify and list any major announcements, updates, or breaking news mentioned in the podcast.
    - Present each item as a clear and concise bullet point.
2. **Important Facts**:
    Extract any data, statistics, or factual information that is relevant and noteworthy.
3. **Noteworthy Insights**:
    Highlight any unique perspectives, expert opinions, or thought-provoking ideas discussed in the podcast.
4. **Future Updates**:
    - Identify any mentions of upcoming events, plans, or future developments discussed in the podcast.
    - Present these as bullet points.
5. **Actionable Takeaways**:
    If applicable, include any actionable advice, recommendations, or calls to action mentioned in the podcast.

Format the output in a clear and structured way, suitable for publishing as a news article or summary.

**Transcription content:** %s`

// buildRequest interpolates the transcript verbatim at the end of the prompt.
func (s *implSummarizer) buildRequest(transcript string) Request {
	return Request{
		System:      systemPrompt,
		User:        fmt.Sprintf(summaryPrompt, transcript),
		Model:       s.cfg.Model,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
}
