package news

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeTopics parses a trending_topics value. It accepts a JSON array or a JSON
// string holding one; empty and null values decode to no topics.
func DecodeTopics(raw []byte) ([]TrendingTopic, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("decoding trending topics: %w", err)
		}
		return DecodeTopics([]byte(inner))
	}
	var topics []TrendingTopic
	if err := json.Unmarshal(raw, &topics); err != nil {
		return nil, fmt.Errorf("decoding trending topics: %w", err)
	}
	return topics, nil
}
