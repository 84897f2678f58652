package workflow

import "fmt"

const analyzeSystemPrompt = "You are an expert business analyst specializing in RFP analysis. " +
	"Extract comprehensive information and return valid JSON only."

const outlineSystemPrompt = "You are an expert proposal writer with 15+ years of experience in creating " +
	"winning business proposals. Create comprehensive, professional outlines that address all client " +
	"concerns and highlight competitive advantages."

const generateSystemPrompt = `You are a senior proposal writer and business development expert with 20+ years of experience.
You specialize in creating winning business proposals that secure contracts.
Your writing is persuasive, professional, and detail-oriented.
You understand how to address client concerns and highlight competitive advantages.
Create a comprehensive business proposal that demonstrates deep understanding of the client's needs.`

const reviewSystemPrompt = `You are a senior proposal review expert and business consultant.
You have extensive experience evaluating business proposals and know what makes them successful.
You provide detailed, constructive feedback that helps create winning proposals.
Your reviews are thorough, practical, and focused on improving win rates.`

const finalizeSystemPrompt = `You are a senior proposal writer and business strategist with a proven track record of winning major contracts.
You excel at creating compelling, professional business proposals that resonate with decision-makers.
Your final proposals are polished, persuasive, and demonstrate clear value to clients.
You understand what executives look for and how to position solutions for maximum impact.`

func buildAnalyzePrompt(requirements string) string {
	return fmt.Sprintf(`As an expert business analyst, analyze the following RFP requirements and extract comprehensive information:

RFP REQUIREMENTS:
%s

Provide a detailed analysis in JSON format with the following structure:
{
  "project_overview": "Brief summary of the project",
  "key_objectives": ["objective1", "objective2", "objective3"],
  "technical_requirements": ["req1", "req2", "req3"],
  "deliverables": ["deliverable1", "deliverable2"],
  "timeline_indicators": "estimated project duration",
  "budget_indicators": "budget range or indicators",
  "complexity_level": "low/medium/high",
  "industry_sector": "relevant industry",
  "stakeholders": ["stakeholder1", "stakeholder2"],
  "success_criteria": ["criteria1", "criteria2"],
  "risks_identified": ["risk1", "risk2"],
  "compliance_requirements": ["requirement1", "requirement2"]
}`, requirements)
}

func buildOutlinePrompt(analysisJSON, requirements string) string {
	return fmt.Sprintf(`Based on the following comprehensive analysis, create a detailed business proposal outline:

ANALYSIS:
%s

ORIGINAL REQUIREMENTS:
%s

Create a comprehensive business proposal outline with the following structure:

1. EXECUTIVE SUMMARY
   - Project overview and value proposition
   - Key benefits and ROI
   - Recommended solution summary

2. UNDERSTANDING OF REQUIREMENTS
   - Analysis of client needs
   - Project objectives
   - Success criteria

3. PROPOSED SOLUTION
   - Technical approach
   - Methodology
   - Innovation and differentiation

4. PROJECT DELIVERABLES
   - Detailed deliverables list
   - Quality standards
   - Acceptance criteria

5. PROJECT TIMELINE & MILESTONES
   - Phase breakdown
   - Key milestones
   - Dependencies

6. TEAM & EXPERTISE
   - Team composition
   - Relevant experience
   - Qualifications

7. BUDGET & PRICING
   - Cost breakdown
   - Payment terms
   - Value justification

8. RISK MANAGEMENT
   - Identified risks
   - Mitigation strategies
   - Contingency plans

9. QUALITY ASSURANCE
   - QA processes
   - Testing approach
   - Performance metrics

10. POST-IMPLEMENTATION SUPPORT
    - Maintenance plans
    - Training programs
    - Ongoing support

Provide detailed content for each section, ensuring professional business language and compelling value propositions.`, analysisJSON, requirements)
}

func buildGeneratePrompt(analysisJSON, outline, requirements string) string {
	return fmt.Sprintf(`Using the detailed analysis and outline provided, generate a comprehensive, professional business proposal document:

PROJECT ANALYSIS:
%s

PROPOSAL OUTLINE:
%s

ORIGINAL RFP REQUIREMENTS:
%s

Generate a complete business proposal document with the following specifications:

1. Use professional business language and tone
2. Include specific details and actionable items
3. Address all RFP requirements comprehensively
4. Highlight unique value propositions and competitive advantages
5. Include realistic timelines and milestones
6. Provide detailed cost justifications
7. Address potential risks and mitigation strategies
8. Include quality assurance measures
9. Specify post-implementation support
10. Use persuasive language to win the business

Structure the proposal with clear headings, bullet points, and professional formatting.
Make it compelling, detailed, and ready for client presentation.

The proposal should be 3000-5000 words and cover all aspects thoroughly.`, analysisJSON, outline, requirements)
}

func buildReviewPrompt(requirements, analysisJSON, fullProposal string) string {
	return fmt.Sprintf(`Conduct a thorough review of this business proposal against the original RFP requirements:

ORIGINAL RFP REQUIREMENTS:
%s

PROJECT ANALYSIS:
%s

BUSINESS PROPOSAL:
%s

Provide a comprehensive review focusing on:

1. COMPLETENESS CHECK:
   - Are all RFP requirements addressed?
   - Are there any missing sections or information?
   - Is the proposal comprehensive enough?

2. TECHNICAL ACCURACY:
   - Are technical solutions feasible?
   - Are timelines realistic?
   - Are deliverables clearly defined?

3. BUSINESS VALUE:
   - Is the value proposition clear and compelling?
   - Are benefits clearly articulated?
   - Is ROI demonstrated effectively?

4. COMPETITIVE POSITIONING:
   - What makes this proposal stand out?
   - Are unique advantages highlighted?
   - How does it differentiate from competitors?

5. LANGUAGE AND PRESENTATION:
   - Is the tone professional and persuasive?
   - Is the structure logical and easy to follow?
   - Are there any grammatical or clarity issues?

6. RISK ASSESSMENT:
   - Are potential risks identified and addressed?
   - Are mitigation strategies reasonable?
   - Is the proposal realistic and achievable?

7. IMPROVEMENT RECOMMENDATIONS:
   - What specific improvements would strengthen the proposal?
   - What additional information should be included?
   - How can the persuasiveness be enhanced?

Provide specific, actionable feedback for improving the proposal.`, requirements, analysisJSON, fullProposal)
}

func buildFinalizePrompt(requirements, analysisJSON, fullProposal, review string) string {
	return fmt.Sprintf(`Based on the comprehensive review feedback, create the final, polished version of this business proposal:

ORIGINAL RFP REQUIREMENTS:
%s

PROJECT ANALYSIS:
%s

CURRENT PROPOSAL:
%s

DETAILED REVIEW FEEDBACK:
%s

Create the final, client-ready business proposal that:

1. INCORPORATES ALL FEEDBACK:
   - Address all issues identified in the review
   - Enhance weak sections
   - Add missing information
   - Improve clarity and persuasiveness

2. ENSURES PROFESSIONAL PRESENTATION:
   - Perfect grammar and professional language
   - Logical flow and clear structure
   - Compelling value propositions
   - Strong call-to-action

3. MAXIMIZES WIN PROBABILITY:
   - Directly addresses all RFP requirements
   - Highlights competitive advantages
   - Demonstrates clear understanding of client needs
   - Provides specific, actionable solutions

4. INCLUDES EXECUTIVE-LEVEL APPEAL:
   - Strong executive summary
   - Clear business benefits
   - ROI justification
   - Risk mitigation

The final proposal should be a complete, professional document that stands out from competitors
and positions our organization as the best choice for this project.

Format it as a complete business proposal ready for client presentation.`, requirements, analysisJSON, fullProposal, review)
}
