package advisor

import "fmt"

// BuildPrompt renders the user prompt for one request. Both inputs are
// embedded verbatim.
func BuildPrompt(req OptimizationRequest) string {
	return fmt.Sprintf("User Playstyle: %s. Device Info: %s. "+
		"Suggest an ultimate gaming optimization strategy for Free Fire. "+
		"Focus on FPS, Sensitivity adjustments (General, Red Dot), and movement tactics. "+
		"Format your response in JSON.",
		req.Playstyle, req.DeviceProfile)
}
