package orchestrator

import "strings"

// Mission domains assigned by intent classification.
const (
	DomainDataAnalysis   = "DataAnalysis"
	DomainCodeGeneration = "CodeGeneration"
	DomainSecurityAudit  = "SecurityAudit"
	DomainResearch       = "Research"
	DomainGeneral        = "General"
)

// ClassifyDomain maps a user intent to a mission domain with keyword
// matching. Rules are checked in priority order; intents matching no
// rule fall back to the general domain.
func ClassifyDomain(intent string) string {
	lowered := strings.ToLower(intent)

	switch {
	case strings.Contains(lowered, "data") || strings.Contains(lowered, "analyze"):
		return DomainDataAnalysis
	case strings.Contains(lowered, "code") || strings.Contains(lowered, "program"):
		return DomainCodeGeneration
	case strings.Contains(lowered, "security") || strings.Contains(lowered, "audit"):
		return DomainSecurityAudit
	case strings.Contains(lowered, "research") || strings.Contains(lowered, "find"):
		return DomainResearch
	}
	return DomainGeneral
}
