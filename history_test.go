package psyche

import "testing"

func TestDefaultPartitionTotal(t *testing.T) {
	if got := DefaultPartition.TotalNodes(); got != 40 {
		t.Errorf("TotalNodes() = %d, want 40", got)
	}
}

func TestPartitionResolve(t *testing.T) {
	tests := []struct {
		nodeID int
		domain Domain
		ok     bool
	}{
		{0, DomainFoundation, true},
		{7, DomainFoundation, true},
		{8, DomainMoney, true},
		{17, DomainMoney, true},
		{18, DomainAgency, true},
		{28, DomainSocial, true},
		{36, DomainLegacy, true},
		{39, DomainLegacy, true},
		{40, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		domain, ok := DefaultPartition.Resolve(tt.nodeID)
		if domain != tt.domain || ok != tt.ok {
			t.Errorf("Resolve(%d) = (%q, %v), want (%q, %v)", tt.nodeID, domain, ok, tt.domain, tt.ok)
		}
	}
}

func TestSessionStateMaxCompleted(t *testing.T) {
	var s SessionState
	if got := s.maxCompleted(); got != -1 {
		t.Errorf("empty maxCompleted() = %d, want -1", got)
	}
	s.Completed = []int{3, 11, 7}
	if got := s.maxCompleted(); got != 11 {
		t.Errorf("maxCompleted() = %d, want 11", got)
	}
}

func TestSensationClassification(t *testing.T) {
	if !SensationTension.isBlock() || !SensationConstriction.isBlock() {
		t.Error("tension and constriction must count as blocks")
	}
	if !SensationWarmth.isResource() {
		t.Error("warmth must count as a resource")
	}
	if SensationNeutral.isBlock() || SensationNeutral.isResource() || SensationHeaviness.isBlock() {
		t.Error("neutral and heaviness must be neither block nor resource")
	}
}
