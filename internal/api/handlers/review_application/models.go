package review_application

import "fmt"

const (
	decisionAccept = "ACCEPT"
	decisionReject = "REJECT"
)

// ReviewApplicationRequest HTTP request model
type ReviewApplicationRequest struct {
	Decision string `json:"decision"` // "ACCEPT" или "REJECT"
}

// Accept возвращает true для решения ACCEPT
func (r *ReviewApplicationRequest) Accept() (bool, error) {
	switch r.Decision {
	case decisionAccept:
		return true, nil
	case decisionReject:
		return false, nil
	default:
		return false, fmt.Errorf("unknown decision %q", r.Decision)
	}
}
