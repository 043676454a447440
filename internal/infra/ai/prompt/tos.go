package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/rdflg/internal/domain/tos"
)

const (
	// NotApplicable replaces absent optional inputs in prompt text.
	NotApplicable = "N/A (not applicable)"

	// NoCommunityData replaces empty frequency tables.
	NoCommunityData = "No community data yet."

	// MaxEnterpriseTextRunes bounds the enterprise ToS embedded in a prompt.
	MaxEnterpriseTextRunes = 20000
)

// BuildAnalysisPrompt asks for a structured analysis of one ToS document and
// for the identifying values to be echoed back unchanged.
func BuildAnalysisPrompt(tosText, serviceName, submissionID, snapshot string) string {
	return fmt.Sprintf(`Analyze the following Terms of Service agreement and provide a structured analysis.

SERVICE DETAILS:
- Service Name: %[2]s
- Submission ID: %[3]s
- Snapshot: %[4]s

TERMS OF SERVICE TEXT:
%[1]s

ANALYSIS REQUIREMENTS:
1. Risk Score: 0-100 (0 = safe, 100 = very risky). Be objective and fair.
2. Summary: a brief overview of the document's tone and intent.
3. Clause Count: the number of major clauses.
4. Red Flags: serious concerns users should know about (forced arbitration, broad data rights).
5. Cautions: moderate concerns (automatic renewals, tracking).
6. Positives: user-friendly terms (clear opt-outs, breach notifications).
7. Violations: findings categorized by type (Privacy, Content, Liability) with counts.

Use the submissionId "%[3]s", service "%[2]s", and snapshot "%[4]s" exactly as given in your response. Do not generate new values for them.`,
		tosText, serviceName, submissionID, snapshot)
}

// BuildSubmissionPrompt asks for submission metadata. An empty tosURL is
// rendered as NotApplicable and the model is told to return null for it.
func BuildSubmissionPrompt(tosText string, source tos.Source, tosURL string) string {
	urlLine := NotApplicable
	urlField := "null"
	if strings.TrimSpace(tosURL) != "" {
		urlLine = tosURL
		urlField = fmt.Sprintf("%q", tosURL)
	}

	return fmt.Sprintf(`Extract submission metadata from the following Terms of Service text.

Source: %s
URL: %s

Terms of Service Text:
%s

Provide the following information:
- source: "%s"
- tosUrl: %s
- tosText: The full terms of service text, unchanged
- wordCount: Count the number of whitespace-separated words in exactly the text given above
- notes: Any notable observations about the document format or structure`,
		source, urlLine, tosText, source, urlField)
}

// BuildEnterpriseComparePrompt grounds an enterprise ToS review on the
// community aggregate.
func BuildEnterpriseComparePrompt(tosText, serviceName string, agg tos.CommunityAggregate) string {
	return fmt.Sprintf(`You are analyzing an enterprise's Terms of Service against issues the user community has flagged before.

Enterprise: %s

TERMS OF SERVICE TEXT:
%s

USER COMMUNITY DATA (%d reports):
Common Complaints (red flag: times reported):
%s

Common Cautions (caution: times reported):
%s

Liked Features:
%s

TASK:
1. Identify clauses in this enterprise ToS that match the community-flagged patterns above.
2. Derive a risk score from 0-100 from how densely the ToS matches those patterns.
3. For each matched issue, estimate userReports from the community frequencies above (0 when there is no community data).
4. Provide a concrete recommendation for each matched issue.
5. List positives, highlighting the ones that match liked features.
Set communityInsights.totalUserReports to %d.`,
		serviceName,
		truncateRunes(tosText, MaxEnterpriseTextRunes),
		agg.TotalReports,
		frequencyTable(agg.RedFlagFrequency),
		frequencyTable(agg.CautionFrequency),
		bulletList(agg.DistinctPositives),
		agg.TotalReports,
	)
}

func frequencyTable(freq map[string]int) string {
	if len(freq) == 0 {
		return NoCommunityData
	}
	var b strings.Builder
	for i, e := range sortByCount(freq) {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "- %s: %d", e.key, e.count)
	}
	return b.String()
}

func bulletList(items []string) string {
	if len(items) == 0 {
		return NoCommunityData
	}
	return "- " + strings.Join(items, "\n- ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
