package link

// Exclusion identifies the rule that disqualified a link.
type Exclusion int

const (
	// ExclusionNone means the link qualifies.
	ExclusionNone Exclusion = iota
	// ExclusionSamePage means the link points to the current article.
	ExclusionSamePage
	// ExclusionExternal means the link leaves the Wikipedia origin.
	ExclusionExternal
	// ExclusionRedLink means the link targets a missing article.
	ExclusionRedLink
	// ExclusionPronunciation means the link targets a pronunciation guide.
	ExclusionPronunciation
	// ExclusionAudio means the link targets a sound recording.
	ExclusionAudio
	// ExclusionParenthesized means the link text is enclosed in parentheses.
	ExclusionParenthesized
)

// String returns a short name for logging.
func (e Exclusion) String() string {
	switch e {
	case ExclusionNone:
		return "none"
	case ExclusionSamePage:
		return "same_page"
	case ExclusionExternal:
		return "external"
	case ExclusionRedLink:
		return "red_link"
	case ExclusionPronunciation:
		return "pronunciation"
	case ExclusionAudio:
		return "audio"
	case ExclusionParenthesized:
		return "parenthesized"
	default:
		return "unknown"
	}
}
