package model

type Trial struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	FullDescription string `json:"full_description"`
	Category        string `json:"category"`
	Phase           string `json:"phase"`
	Status          string `json:"status"`
	Eligibility     string `json:"eligibility"`
	Contact         string `json:"contact"`
	Location        string `json:"location"`
	Duration        string `json:"duration"`
	MatchScore      int    `json:"match_score"`
}

type Expert struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Specialty    string `json:"specialty"`
	Bio          string `json:"bio"`
	Education    string `json:"education"`
	Publications string `json:"publications"`
	Institution  string `json:"institution"`
	Contact      string `json:"contact"`
	MatchScore   int    `json:"match_score"`
}

// SampleTrials and SampleExperts are the curated dashboard listings. Matching
// against real registries is out of scope; scores are part of the curated data.
var SampleTrials = []Trial{
	{
		ID:              "trial-immunotherapy-p3",
		Title:           "Phase III Cancer Immunotherapy Trial",
		Description:     "Testing new immunotherapy approach for advanced melanoma patients",
		FullDescription: "This groundbreaking Phase III clinical trial is investigating a novel immunotherapy treatment for patients with advanced melanoma. The study aims to evaluate the efficacy and safety of combining two immunotherapy agents to enhance the body's immune response against cancer cells. Participants will receive the experimental treatment over 24 months with regular monitoring and follow-up assessments.",
		Category:        "Oncology",
		Phase:           "Phase III",
		Status:          "Recruiting",
		Eligibility:     "Adults 18-75 years with stage III or IV melanoma, ECOG performance status 0-1, adequate organ function",
		Contact:         "Dr. Sarah Johnson - sjohnson@jhmi.edu - (410) 955-5000",
		Location:        "Johns Hopkins Hospital, Baltimore, MD",
		Duration:        "24 months",
		MatchScore:      90,
	},
	{
		ID:              "trial-alzheimers-prevention",
		Title:           "Alzheimer's Prevention Trial",
		Description:     "Early intervention study for individuals at risk of cognitive decline",
		FullDescription: "This Phase III prevention trial investigates whether early intervention with a novel therapeutic approach can delay or prevent the onset of Alzheimer's disease in individuals at high risk. The study includes comprehensive cognitive assessments, biomarker monitoring, and lifestyle interventions over a 36-month period.",
		Category:        "Neurology",
		Phase:           "Phase III",
		Status:          "Recruiting",
		Eligibility:     "Adults 60-75 years with family history of Alzheimer's or genetic risk factors, normal cognition or mild cognitive impairment",
		Contact:         "Dr. Emily Rodriguez - erodriguez@stanford.edu - (650) 723-2300",
		Location:        "Stanford Medical Center, Stanford, CA",
		Duration:        "36 months",
		MatchScore:      85,
	},
	{
		ID:              "trial-t2d-management",
		Title:           "Type 2 Diabetes Management Study",
		Description:     "Novel oral medication for blood sugar control in diabetic patients",
		FullDescription: "This Phase II study evaluates a new once-daily oral medication designed to improve blood sugar control in adults with Type 2 diabetes. The medication works through a unique mechanism targeting both insulin sensitivity and glucose production.",
		Category:        "Endocrinology",
		Phase:           "Phase II",
		Status:          "Recruiting",
		Eligibility:     "Adults 21+ years with Type 2 diabetes for at least 1 year, HbA1c 7.5-11%, BMI 25-40",
		Contact:         "Dr. James Wilson - jwilson@mayo.edu - (507) 284-2511",
		Location:        "Mayo Clinic, Rochester, MN",
		Duration:        "18 months",
		MatchScore:      92,
	},
}

var SampleExperts = []Expert{
	{
		ID:           "expert-sjohnson",
		Name:         "Dr. Sarah Johnson",
		Specialty:    "Oncology Specialist",
		Bio:          "Dr. Johnson has over 15 years of experience in cancer research and treatment, with a particular focus on immunotherapy trials. She has led multiple groundbreaking studies in melanoma and lung cancer treatment.",
		Education:    "MD from Johns Hopkins School of Medicine, Oncology Fellowship at Memorial Sloan Kettering",
		Publications: "15+ peer-reviewed publications in top oncology journals",
		Institution:  "Johns Hopkins Hospital",
		Contact:      "sjohnson@jhmi.edu",
		MatchScore:   95,
	},
	{
		ID:           "expert-mchen",
		Name:         "Dr. Michael Chen",
		Specialty:    "Cardiology Research",
		Bio:          "Dr. Chen leads clinical research on preventive cardiology and heart failure therapeutics, with a focus on translating trial outcomes into everyday care.",
		Education:    "MD from Harvard Medical School, Cardiology Fellowship at Cleveland Clinic",
		Publications: "20+ peer-reviewed publications in cardiovascular medicine",
		Institution:  "Cleveland Clinic",
		Contact:      "mchen@ccf.org",
		MatchScore:   88,
	},
	{
		ID:           "expert-erodriguez",
		Name:         "Dr. Emily Rodriguez",
		Specialty:    "Neurology Expert",
		Bio:          "Dr. Rodriguez specializes in neurodegenerative disease research, including prevention studies for Alzheimer's disease and cognitive decline.",
		Education:    "MD/PhD from Stanford University, Neurology Residency at UCSF",
		Publications: "12+ peer-reviewed publications in neurology and aging",
		Institution:  "Stanford Medical Center",
		Contact:      "erodriguez@stanford.edu",
		MatchScore:   82,
	},
}

func TrialByID(id string) *Trial {
	for i := range SampleTrials {
		if SampleTrials[i].ID == id {
			return &SampleTrials[i]
		}
	}
	return nil
}

func ExpertByID(id string) *Expert {
	for i := range SampleExperts {
		if SampleExperts[i].ID == id {
			return &SampleExperts[i]
		}
	}
	return nil
}
