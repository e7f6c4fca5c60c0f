package fetcher

import (
	"encoding/json"
	"fmt"
	"strings"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Cause   string `json:"cause"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Cause != "" {
		return fmt.Errorf("hypixel api error (%d): %s", status, apiErr.Cause)
	}
	if len(payload) > 0 {
		return fmt.Errorf("hypixel api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("hypixel api error (%d)", status)
}
