package tos

import "time"

// Kind identifies which structured contract a completion is decoded into.
type Kind string

const (
	KindAnalysis   Kind = "analysis"
	KindSubmission Kind = "submission"
	KindEnterprise Kind = "enterprise"
	KindPrompt     Kind = "prompt" // free-form, no schema
)

// Source of a submitted ToS document
type Source string

const (
	SourcePaste Source = "paste"
	SourceURL   Source = "url"
)

// Severity of a matched enterprise issue
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Violation is one violation category with its occurrence count.
type Violation struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Analysis is the structured ToS analysis returned by the model.
type Analysis struct {
	Service         string      `json:"service"`
	RiskScore       int         `json:"riskScore"`
	Summary         string      `json:"summary"`
	ClauseCount     int         `json:"clauseCount"`
	RedFlags        []string    `json:"redFlags"`
	Cautions        []string    `json:"cautions"`
	Positives       []string    `json:"positives"`
	Violations      []Violation `json:"violations"`
	AlertsRaised    []string    `json:"alertsRaised,omitzero"`
	GeminiLatencyMs float64     `json:"geminiLatencyMs"`
}

// SubmissionMetadata describes how a ToS document was submitted.
type SubmissionMetadata struct {
	Source          Source  `json:"source"`
	TosURL          *string `json:"tosUrl"`
	TosText         string  `json:"tosText"`
	WordCount       int     `json:"wordCount"`
	Notes           *string `json:"notes,omitempty"`
	GeminiLatencyMs float64 `json:"geminiLatencyMs"`
}

// MatchedIssue is an enterprise clause that matches a community-flagged pattern.
type MatchedIssue struct {
	Issue          string   `json:"issue"`
	UserReports    int      `json:"userReports"`
	Severity       Severity `json:"severity"`
	Recommendation string   `json:"recommendation"`
}

type CommunityInsights struct {
	TotalUserReports   int    `json:"totalUserReports"`
	TopComplaint       string `json:"topComplaint"`
	IndustryComparison string `json:"industryComparison"`
}

// EnterpriseComparison compares an enterprise ToS against community reports.
type EnterpriseComparison struct {
	RiskScore         int               `json:"riskScore"`
	Summary           string            `json:"summary"`
	MatchedIssues     []MatchedIssue    `json:"matchedIssues"`
	RedFlags          []string          `json:"redFlags"`
	Cautions          []string          `json:"cautions"`
	Positives         []string          `json:"positives"`
	CommunityInsights CommunityInsights `json:"communityInsights"`
	GeminiLatencyMs   float64           `json:"geminiLatencyMs"`
	TotalUserAnalyses int               `json:"totalUserAnalyses"`
}

// AnalysisRecord is a previously persisted analysis as read from the history store.
type AnalysisRecord struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	RiskScore int       `json:"riskScore"`
	RedFlags  []string  `json:"redFlags"`
	Cautions  []string  `json:"cautions"`
	Positives []string  `json:"positives"`
	CreatedAt time.Time `json:"createdAt"`
}
