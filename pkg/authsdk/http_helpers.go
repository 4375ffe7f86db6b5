package authsdk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// decodeJSON decodes a JSON response into the target, returning a typed
// *APIError when the status is not the expected one. It always drains and
// closes the body.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("authsdk: failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("authsdk: failed to decode response: %w", err)
	}

	return nil
}

// readError consumes a response known to be a failure and returns it as an
// *APIError.
func readError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)
	return parseErrorResponse(resp, bodyBytes)
}
