package summarizer

import "github.com/edgard/catchupbot/internal/database"

const (
	// sampleThreshold is the largest input returned unchanged by Sample.
	sampleThreshold = 100
	minSampleEdge   = 10
)

// Sample thins a large ordered message list while keeping its opening and
// closing context. Lists of up to 100 messages are returned unchanged. Above
// that, the first and last max(10, n/10) messages are kept verbatim and every
// k-th message of the middle is kept, aiming for about targetMiddle samples.
// The result is deterministic and preserves relative order.
func Sample(messages []database.Message, targetMiddle int) []database.Message {
	n := len(messages)
	if n <= sampleThreshold {
		return messages
	}
	if targetMiddle <= 0 {
		targetMiddle = 80
	}

	edge := max(minSampleEdge, n/10)
	middle := messages[edge : n-edge]
	step := max(1, len(middle)/targetMiddle)

	sampled := make([]database.Message, 0, 2*edge+len(middle)/step+1)
	sampled = append(sampled, messages[:edge]...)
	for i := 0; i < len(middle); i += step {
		sampled = append(sampled, middle[i])
	}
	sampled = append(sampled, messages[n-edge:]...)
	return sampled
}
