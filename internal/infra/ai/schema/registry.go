package schema

import (
	"fmt"

	"github.com/bryanwahyu/rdflg/internal/domain/tos"
)

type field struct {
	name     string
	node     *Node
	required bool
}

func req(name string, n *Node) field { return field{name: name, node: n, required: true} }
func opt(name string, n *Node) field { return field{name: name, node: n} }

func object(desc string, fields ...field) *Node {
	n := &Node{Type: Object, Description: desc, Properties: map[string]*Node{}}
	for _, f := range fields {
		n.Properties[f.name] = f.node
		n.Order = append(n.Order, f.name)
		if f.required {
			n.Required = append(n.Required, f.name)
		}
	}
	return n
}

func str(desc string) *Node     { return &Node{Type: String, Description: desc} }
func number(desc string) *Node  { return &Node{Type: Number, Description: desc} }
func integer(desc string) *Node { return &Node{Type: Integer, Description: desc} }

func stringList(desc string) *Node {
	return &Node{Type: Array, Description: desc, Items: &Node{Type: String}}
}

func list(desc string, items *Node) *Node {
	return &Node{Type: Array, Description: desc, Items: items}
}

func enum(desc string, values ...string) *Node {
	return &Node{Type: String, Description: desc, Enum: values}
}

var (
	// Analysis is the ToS analysis contract.
	Analysis = newDescriptor("tos_analysis", tos.KindAnalysis, object("",
		req("service", str("Service name or identifier")),
		req("riskScore", number("Numerical risk score from 0-100, where 100 is highest risk")),
		req("summary", str("Brief summary of the terms of service analysis")),
		req("clauseCount", integer("Total number of clauses analyzed in the terms of service")),
		req("redFlags", stringList("Serious concerns or problematic clauses found")),
		req("cautions", stringList("Moderate concerns or clauses requiring attention")),
		req("positives", stringList("User-friendly or positive aspects found")),
		req("violations", list("Violation types with their occurrence counts", object("",
			req("label", str("Type or category of violation")),
			req("count", integer("Number of occurrences of this violation type")),
		))),
		opt("alertsRaised", stringList("Alert IDs for downstream notifications")),
	))

	// Submission is the submission metadata contract.
	Submission = newDescriptor("tos_submission", tos.KindSubmission, object("",
		req("source", enum("Source of the terms of service - either pasted text or URL",
			string(tos.SourcePaste), string(tos.SourceURL))),
		opt("tosUrl", &Node{Type: String, Nullable: true,
			Description: "URL of the terms of service if source is 'url', otherwise null"}),
		req("tosText", str("The actual terms of service text content")),
		req("wordCount", integer("Number of words in the terms of service text")),
		opt("notes", str("Optional notes or comments about the submission")),
	))

	// Enterprise is the enterprise comparison contract.
	Enterprise = newDescriptor("enterprise_comparison", tos.KindEnterprise, object("",
		req("riskScore", number("Risk score from 0-100 derived from how densely the ToS matches community-flagged patterns")),
		req("summary", str("Brief summary of the comparison")),
		req("matchedIssues", list("Enterprise clauses matching community-flagged issues", object("",
			req("issue", str("The matched issue")),
			req("userReports", integer("Estimated number of users who would flag this issue")),
			req("severity", enum("Severity of the issue",
				string(tos.SeverityHigh), string(tos.SeverityMedium), string(tos.SeverityLow))),
			req("recommendation", str("Recommended change to the clause")),
		))),
		req("redFlags", stringList("Serious concerns found in the enterprise ToS")),
		req("cautions", stringList("Moderate concerns found in the enterprise ToS")),
		req("positives", stringList("Positive terms, especially ones the community likes")),
		req("communityInsights", object("",
			req("totalUserReports", integer("Number of community reports the comparison is grounded on")),
			req("topComplaint", str("The most frequent community complaint")),
			req("industryComparison", str("How the ToS compares to what users usually report")),
		)),
	))
)

// For returns the descriptor registered for kind.
func For(kind tos.Kind) (*Descriptor, error) {
	switch kind {
	case tos.KindAnalysis:
		return Analysis, nil
	case tos.KindSubmission:
		return Submission, nil
	case tos.KindEnterprise:
		return Enterprise, nil
	}
	return nil, fmt.Errorf("unknown schema kind %q", kind)
}
