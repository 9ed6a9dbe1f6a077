package domain

// Specialty is the domain an agent profile advises on
type Specialty string

const (
	SpecialtyMarketing        Specialty = "marketing"
	SpecialtyRestaurant       Specialty = "restaurant"
	SpecialtyRealEstate       Specialty = "real-estate"
	SpecialtyLegal            Specialty = "legal"
	SpecialtyEducation        Specialty = "education"
	SpecialtyFitness          Specialty = "fitness"
	SpecialtyBusinessPlanning Specialty = "business-planning"
	SpecialtyFinance          Specialty = "finance"
	SpecialtyResearch         Specialty = "research"
	SpecialtyLivePlan         Specialty = "liveplan"
)

// AgentProfile is read-only reference data for the agents marketplace
type AgentProfile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Specialty Specialty `json:"specialty"`
	// Persona is the prompt prefix that sets the agent's voice
	Persona string `json:"-"`
	// Focus lists what the agent's suggestions should concentrate on
	Focus string `json:"focus"`
	// DefaultContext is used when the caller gives no context of their own
	DefaultContext string `json:"default_context"`
}
