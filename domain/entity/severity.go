package entity

// SeverityLevel はインシデントの重大度(1が最小、5が最大)
type SeverityLevel int

const (
	SeverityNegligible SeverityLevel = iota + 1
	SeverityMinor
	SeverityModerate
	SeverityMajor
	SeverityCatastrophic
)

func (l SeverityLevel) Valid() bool {
	return l >= SeverityNegligible && l <= SeverityCatastrophic
}

func (l SeverityLevel) String() string {
	switch l {
	case SeverityNegligible:
		return "negligible"
	case SeverityMinor:
		return "minor"
	case SeverityModerate:
		return "moderate"
	case SeverityMajor:
		return "major"
	case SeverityCatastrophic:
		return "catastrophic"
	default:
		return "unknown"
	}
}

// SeverityPolicy は重大度ごとのクローズ権限
type SeverityPolicy struct {
	AllowCloseOnSpot       bool
	RequiresReview         bool
	RequiresManagerClosure bool
	BlockedUntilVerified   bool
}

var severityPolicies = map[SeverityLevel]SeverityPolicy{
	SeverityNegligible:   {AllowCloseOnSpot: true},
	SeverityMinor:        {AllowCloseOnSpot: true},
	SeverityModerate:     {RequiresReview: true},
	SeverityMajor:        {RequiresReview: true, BlockedUntilVerified: true},
	SeverityCatastrophic: {RequiresReview: true, RequiresManagerClosure: true, BlockedUntilVerified: true},
}

// PolicyFor は固定5段階のポリシーテーブルを引く。範囲外はクランプする
func PolicyFor(level SeverityLevel) SeverityPolicy {
	if level < SeverityNegligible {
		level = SeverityNegligible
	}
	if level > SeverityCatastrophic {
		level = SeverityCatastrophic
	}
	return severityPolicies[level]
}

const (
	WorkflowLabelManagerClosure = "manager_closure"
	WorkflowLabelReviewRequired = "review_required"
	WorkflowLabelCloseOnSpot    = "close_on_spot"
	WorkflowLabelStandard       = "standard"
)

// WorkflowLabel はポリシーから代表タグを1つ導出する
// 優先順: manager_closure > review_required > close_on_spot > standard
func WorkflowLabel(level SeverityLevel) string {
	p := PolicyFor(level)
	switch {
	case p.RequiresManagerClosure:
		return WorkflowLabelManagerClosure
	case p.RequiresReview:
		return WorkflowLabelReviewRequired
	case p.AllowCloseOnSpot:
		return WorkflowLabelCloseOnSpot
	default:
		return WorkflowLabelStandard
	}
}
