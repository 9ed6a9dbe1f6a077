package tool

import (
	"fmt"
	"strings"

	"github.com/Turjoy01/OmniAI-by-Turjoy-The-Ultimate-10-in-1-AI-Powerhouse-for-Global-Innovation/internal/domain"
)

var agentProfiles = []domain.AgentProfile{
	{
		ID: "marketing", Name: "Marketing Agent", Specialty: domain.SpecialtyMarketing,
		Persona:        "an expert Marketing Agent",
		Focus:          "modern marketing strategies, digital channels, content strategy and audience engagement",
		DefaultContext: "general marketing strategy",
	},
	{
		ID: "restaurant", Name: "Restaurant Agent", Specialty: domain.SpecialtyRestaurant,
		Persona:        "an expert Restaurant Agent",
		Focus:          "menu optimization, customer experience, operations and profitability",
		DefaultContext: "restaurant operations",
	},
	{
		ID: "real-estate", Name: "Real Estate Agent", Specialty: domain.SpecialtyRealEstate,
		Persona:        "an expert Real Estate Agent",
		Focus:          "property marketing, client relations, market analysis and sales strategies",
		DefaultContext: "real estate business",
	},
	{
		ID: "legal", Name: "Legal Agent", Specialty: domain.SpecialtyLegal,
		Persona:        "an expert Legal Agent",
		Focus:          "client communication, case management, legal documentation and practice growth within professional ethics",
		DefaultContext: "legal practice",
	},
	{
		ID: "teacher", Name: "Teacher Agent", Specialty: domain.SpecialtyEducation,
		Persona:        "an expert Teacher Agent",
		Focus:          "lesson planning, student engagement, assessment strategies and different learning styles",
		DefaultContext: "teaching and education",
	},
	{
		ID: "fitness", Name: "Fitness Agent", Specialty: domain.SpecialtyFitness,
		Persona:        "an expert Fitness Agent",
		Focus:          "workout planning, nutrition, recovery and goal achievement across fitness levels",
		DefaultContext: "fitness and wellness",
	},
	{
		ID: "business-plan-builder", Name: "Business Plan Builder", Specialty: domain.SpecialtyBusinessPlanning,
		Persona:        "an expert Business Plan Builder Agent",
		Focus:          "business structure, market analysis, financial planning and investor expectations",
		DefaultContext: "business planning",
	},
	{
		ID: "financial-forecasts", Name: "Financial Forecasts & Scenarios", Specialty: domain.SpecialtyFinance,
		Persona:        "an expert Financial Forecasts & Scenarios Agent",
		Focus:          "financial modeling, scenario planning, risk analysis and cash flow management",
		DefaultContext: "financial forecasting",
	},
	{
		ID: "industry-research", Name: "Industry Research Agent", Specialty: domain.SpecialtyResearch,
		Persona:        "an expert Industry Research Agent",
		Focus:          "market analysis, competitive intelligence, trend identification and research methodology",
		DefaultContext: "industry research",
	},
	{
		ID: "liveplan-assistant", Name: "AI-Powered LivePlan Assistant", Specialty: domain.SpecialtyLivePlan,
		Persona:        "an expert AI-Powered LivePlan Assistant",
		Focus:          "business plan structure, financial projections, presentation quality and investor readiness",
		DefaultContext: "business plan development",
	},
}

// AgentProfiles returns the agents marketplace catalog
func AgentProfiles() []domain.AgentProfile {
	out := make([]domain.AgentProfile, len(agentProfiles))
	copy(out, agentProfiles)
	return out
}

func agentProfile(id string) (domain.AgentProfile, bool) {
	for _, p := range agentProfiles {
		if p.ID == id {
			return p, true
		}
	}
	return domain.AgentProfile{}, false
}

func agentIDs() string {
	ids := make([]string, len(agentProfiles))
	for i, p := range agentProfiles {
		ids[i] = p.ID
	}
	return strings.Join(ids, " ")
}

func agentTools() []*Definition {
	return []*Definition{
		{
			ID:          "agent-suggestions",
			Pillar:      PillarAgents,
			Description: "Four actionable suggestions from a marketplace agent",
			Kind:        KindCompletion,
			Shape:       domain.ShapeDocument,
			Fields: []Field{
				{Name: "agent", Type: TypeString, Required: true, Rules: "oneof=" + agentIDs()},
				{Name: "context", Type: TypeString, Rules: "max=2000"},
			},
			System: func(Input) string {
				return "You are an expert AI assistant specialized in providing actionable, professional suggestions."
			},
			Template: func(in Input) string {
				p, _ := agentProfile(in.String("agent"))
				return fmt.Sprintf(`You are %s. Provide %d tailored, actionable suggestions based on: %s

Requirements:
- Each suggestion should be specific, actionable, and practical
- Focus on %s
- Make suggestions relevant to the user's context

Format your response as a numbered list (1-%d), with each suggestion on a new line. Be concise but informative.`,
					p.Persona, maxSuggestions, in.StringOr("context", p.DefaultContext), p.Focus, maxSuggestions)
			},
			Post: suggestionList,
		},
	}
}
