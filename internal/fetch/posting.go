package fetch

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"
)

// Board identifies an applicant tracking system that hosts job postings.
type Board string

const (
	BoardGreenhouse Board = "greenhouse"
	BoardLever      Board = "lever"
	BoardWorkday    Board = "workday"
	BoardAshby      Board = "ashby"
	BoardUnknown    Board = "unknown"
)

type boardProfile struct {
	hosts   []string
	content []string
	noise   []string
}

var boards = map[Board]boardProfile{
	BoardGreenhouse: {
		hosts:   []string{"greenhouse.io"},
		content: []string{".job__description.body", ".job__description", "#content", ".job-post-container"},
		noise:   []string{".application--wrapper", "#application-form", ".voluntary-self-id", "#usa_self_id_section"},
	},
	BoardLever: {
		hosts:   []string{"lever.co"},
		content: []string{".posting-page", ".section-wrapper.page-full-width", ".posting-description", ".content"},
		noise:   []string{".apply-section", ".posting-apply", ".lever-application-form"},
	},
	BoardWorkday: {
		hosts:   []string{"workday.com", "myworkdayjobs.com"},
		content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']", ".job-description"},
		noise:   []string{"[data-automation-id='applyButton']", ".application-section"},
	},
	BoardAshby: {
		hosts:   []string{"ashbyhq.com"},
		content: []string{"[class*='descriptionText']", "main"},
		noise:   []string{"[class*='applicationForm']"},
	},
}

// commonNoise is stripped from every job posting regardless of board.
var commonNoise = []string{
	"form",
	".application-form",
	".apply-button-container",
	".eeo-statement",
	".legal-disclosure",
	".social-share",
	".cookie-consent",
	".gdpr-notice",
}

// DetectBoard identifies the hosting applicant tracking system from a posting URL.
func DetectBoard(rawURL string) Board {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return BoardUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for board, profile := range boards {
		for _, h := range profile.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return board
			}
		}
	}
	return BoardUnknown
}

// PostingSelectors returns the content and noise selectors for a board.
func PostingSelectors(board Board) (content, noise []string) {
	profile, ok := boards[board]
	if !ok {
		return JobPostingSelectors(), commonNoise
	}
	content = append(append([]string{}, profile.content...), JobPostingSelectors()...)
	noise = append(append([]string{}, commonNoise...), profile.noise...)
	return content, noise
}

// PostingOptions configures JobPosting.
type PostingOptions struct {
	HTTP *Options
	// UseBrowser re-renders pages whose plain-HTTP text is too short.
	UseBrowser    bool
	RenderTimeout time.Duration
	Verbose       bool
}

// JobPosting downloads a job posting and returns its description text.
func JobPosting(ctx context.Context, postingURL string, opts PostingOptions) (string, error) {
	board := DetectBoard(postingURL)
	content, noise := PostingSelectors(board)
	if opts.Verbose {
		log.Printf("[FETCH] Posting %s detected as %s", postingURL, board)
	}

	result, err := URL(ctx, postingURL, opts.HTTP)
	if err != nil {
		return "", err
	}
	text, err := ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return "", &Error{URL: postingURL, Message: "failed to extract text", Cause: err}
	}

	if opts.UseBrowser && ShouldUseBrowser(text) {
		if opts.Verbose {
			log.Printf("[FETCH] Only %d characters over HTTP, rendering in browser", len(text))
		}
		html, renderErr := Render(ctx, postingURL, RenderOptions{
			Timeout: opts.RenderTimeout,
			Settle:  2 * time.Second,
			Verbose: opts.Verbose,
		})
		if renderErr != nil {
			if opts.Verbose {
				log.Printf("[FETCH] Browser render failed, keeping HTTP text: %v", renderErr)
			}
		} else if rendered, extractErr := ExtractMainText(html, content, noise...); extractErr == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: postingURL, StatusCode: result.StatusCode, Message: "no posting text found"}
	}
	return text, nil
}
