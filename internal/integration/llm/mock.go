package llm

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is a canned-response implementation for local development.
// Responses are matched against the prompt so the whole workflow can run
// without a live completion service.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

const mockAnalysisJSON = `{
  "project_overview": "Modernization of a customer-facing web portal (MOCK)",
  "key_objectives": ["Improve user experience", "Reduce operational costs", "Increase self-service adoption"],
  "technical_requirements": ["Responsive web frontend", "REST API backend", "SSO integration"],
  "deliverables": ["Portal application", "Documentation", "Training materials"],
  "timeline_indicators": "6 months from contract signing",
  "budget_indicators": "Mid-range, fixed price preferred",
  "complexity_level": "medium",
  "industry_sector": "financial services",
  "stakeholders": ["Client IT department", "End customers", "Operations team"],
  "success_criteria": ["On-time delivery", "User satisfaction above 80%"],
  "risks_identified": ["Legacy system integration", "Data migration"],
  "compliance_requirements": ["GDPR", "Accessibility standards"]
}`

const mockOutline = `1. EXECUTIVE SUMMARY
Overview of the portal modernization and its value proposition. (MOCK)

2. UNDERSTANDING OF REQUIREMENTS
Analysis of client needs, objectives and success criteria.

3. PROPOSED SOLUTION
Technical approach, methodology and differentiation.

4. PROJECT DELIVERABLES
Portal application, documentation, training materials.

5. PROJECT TIMELINE & MILESTONES
Six month phased delivery with monthly milestones.

6. TEAM & EXPERTISE
Cross-functional delivery team with domain experience.

7. BUDGET & PRICING
Fixed price with milestone-based payment terms.

8. RISK MANAGEMENT
Legacy integration and data migration risks with mitigations.

9. QUALITY ASSURANCE
Automated testing and acceptance criteria per deliverable.

10. POST-IMPLEMENTATION SUPPORT
Twelve months of maintenance and a training program.`

const mockProposal = `# Business Proposal (MOCK)

## Executive Summary
We propose a phased modernization of the customer portal that improves user
experience while reducing operational costs.

## Understanding of Requirements
The RFP calls for a responsive web frontend, a REST API backend and SSO
integration, delivered within six months.

## Proposed Solution
A modular architecture with incremental rollout and continuous stakeholder
feedback.

## Budget & Pricing
Fixed price with milestone-based payments.

## Risk Management
Legacy system integration is addressed through an anti-corruption layer and a
staged data migration.`

const mockReview = `REVIEW FEEDBACK (MOCK)

1. COMPLETENESS: All RFP requirements are addressed, the support section could
be expanded.
2. TECHNICAL ACCURACY: Feasible approach, timelines are realistic.
3. BUSINESS VALUE: Value proposition is clear, add ROI figures.
4. RECOMMENDATIONS: Strengthen the executive summary and include reference
projects.`

const mockFinalProposal = `# Business Proposal — Final (MOCK)

## Executive Summary
We propose a phased modernization of the customer portal that improves user
experience, reduces operational costs and delivers measurable ROI within the
first year.

## Understanding of Requirements
The RFP calls for a responsive web frontend, a REST API backend and SSO
integration, delivered within six months.

## Proposed Solution
A modular architecture with incremental rollout, continuous stakeholder
feedback and reference implementations from comparable engagements.

## Budget & Pricing
Fixed price with milestone-based payments and a detailed cost breakdown.

## Risk Management
Legacy system integration is addressed through an anti-corruption layer and a
staged data migration.

## Post-Implementation Support
Twelve months of maintenance, a training program and a dedicated support
channel.`

const mockProjectSummary = `Project: Customer Portal Modernization. The client requests a responsive
portal with SSO integration, to be delivered in six months by a cross-functional
team. Success is measured through adoption and user satisfaction. (MOCK)`

// Complete returns a canned response matched to the prompt.
func (m *MockConnector) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] completion requested",
		zap.Int("system_prompt_length", len(systemPrompt)),
		zap.Int("user_prompt_length", len(userPrompt)),
	)

	switch {
	case strings.Contains(userPrompt, "extract the project name"):
		return "Customer Portal Modernization", nil
	case strings.Contains(userPrompt, "comprehensive project summary"):
		return mockProjectSummary, nil
	case strings.Contains(systemPrompt, "business analyst"):
		return mockAnalysisJSON, nil
	case strings.Contains(systemPrompt, "review expert"):
		return mockReview, nil
	case strings.Contains(systemPrompt, "business strategist"):
		return mockFinalProposal, nil
	case strings.Contains(systemPrompt, "business development expert"):
		return mockProposal, nil
	case strings.Contains(systemPrompt, "proposal writer"):
		return mockOutline, nil
	default:
		return "Mock completion response", nil
	}
}
