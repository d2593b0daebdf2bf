package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const veoBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// VideoService drives the long-running Veo generation flow: submit a job,
// then poll its operation until it reports done. The genai SDK does not
// expose the video API, so this talks REST directly.
type VideoService struct {
	http         *resty.Client
	model        string
	pollInterval time.Duration
	maxPolls     int
}

func NewVideoService(model string, pollSeconds, maxPolls int) *VideoService {
	return &VideoService{
		http:         resty.New().SetBaseURL(veoBaseURL).SetTimeout(60 * time.Second),
		model:        model,
		pollInterval: time.Duration(pollSeconds) * time.Second,
		maxPolls:     maxPolls,
	}
}

type veoOperation struct {
	Name     string `json:"name"`
	Done     bool   `json:"done"`
	Response struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI string `json:"uri"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate submits the job and polls until completion. The poll loop is tied
// to ctx so an abandoned generation stops instead of leaking. onStatus, when
// non-nil, receives coarse progress notes for streaming to the client.
func (s *VideoService) Generate(ctx context.Context, prompt, apiKey string, onStatus func(step string)) (string, error) {
	notify := func(step string) {
		if onStatus != nil {
			onStatus(step)
		}
	}

	notify("submitting video job")

	var op veoOperation
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("key", apiKey).
		SetBody(map[string]interface{}{
			"instances": []map[string]interface{}{
				{"prompt": prompt},
			},
			"parameters": map[string]interface{}{
				"numberOfVideos": 1,
				"resolution":     "720p",
				"aspectRatio":    "16:9",
			},
		}).
		SetResult(&op).
		Post(fmt.Sprintf("/models/%s:predictLongRunning", s.model))
	if err != nil {
		return "", &GenerationError{Message: "video job submission failed", Err: err}
	}
	if resp.IsError() {
		return "", &GenerationError{Message: fmt.Sprintf("video job submission failed: %s", resp.Status())}
	}
	if op.Name == "" {
		return "", &GenerationError{Message: "video job submission returned no operation name"}
	}

	notify("rendering video")

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for polls := 0; !op.Done; polls++ {
		if polls >= s.maxPolls {
			return "", &GenerationError{Message: "video generation timed out"}
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		resp, err := s.http.R().
			SetContext(ctx).
			SetQueryParam("key", apiKey).
			SetResult(&op).
			Get("/" + op.Name)
		if err != nil {
			return "", &GenerationError{Message: "video job poll failed", Err: err}
		}
		if resp.IsError() {
			return "", &GenerationError{Message: fmt.Sprintf("video job poll failed: %s", resp.Status())}
		}
	}

	if op.Error.Message != "" {
		return "", &GenerationError{Message: "video generation failed: " + op.Error.Message}
	}

	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 || samples[0].Video.URI == "" {
		return "", &GenerationError{Message: "Video generation failed to return a URI"}
	}

	// Append the API key so the returned link is playable directly.
	return samples[0].Video.URI + "&key=" + apiKey, nil
}
