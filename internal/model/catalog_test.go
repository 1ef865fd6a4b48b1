package model

import "testing"

func TestTrialByID(t *testing.T) {
	trial := TrialByID("trial-t2d-management")
	if trial == nil {
		t.Fatal("known trial id not found")
	}
	if trial.Category != "Endocrinology" {
		t.Errorf("category = %q, want Endocrinology", trial.Category)
	}
	if TrialByID("no-such-trial") != nil {
		t.Error("unknown trial id must return nil")
	}
}

func TestExpertByID(t *testing.T) {
	expert := ExpertByID("expert-mchen")
	if expert == nil {
		t.Fatal("known expert id not found")
	}
	if expert.Institution != "Cleveland Clinic" {
		t.Errorf("institution = %q, want Cleveland Clinic", expert.Institution)
	}
	if ExpertByID("") != nil {
		t.Error("empty id must return nil")
	}
}

func TestCatalogIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, trial := range SampleTrials {
		if seen[trial.ID] {
			t.Errorf("duplicate trial id %q", trial.ID)
		}
		seen[trial.ID] = true
	}
	for _, expert := range SampleExperts {
		if seen[expert.ID] {
			t.Errorf("duplicate expert id %q", expert.ID)
		}
		seen[expert.ID] = true
	}
}
