package orchestrator

import "testing"

func TestClassifyDomain(t *testing.T) {
	tests := []struct {
		intent string
		want   string
	}{
		{"Analyze quarterly sales figures", DomainDataAnalysis},
		{"clean the data warehouse", DomainDataAnalysis},
		{"generate code for the parser", DomainCodeGeneration},
		{"write a program that sorts files", DomainCodeGeneration},
		{"run a security review", DomainSecurityAudit},
		{"audit the access logs", DomainSecurityAudit},
		{"research prior art", DomainResearch},
		{"find related publications", DomainResearch},
		{"summarize this document", DomainGeneral},
		{"", DomainGeneral},
		// "data" outranks "code" when both appear
		{"write code to analyze data", DomainDataAnalysis},
	}

	for _, tt := range tests {
		if got := ClassifyDomain(tt.intent); got != tt.want {
			t.Errorf("ClassifyDomain(%q) = %q, want %q", tt.intent, got, tt.want)
		}
	}
}
