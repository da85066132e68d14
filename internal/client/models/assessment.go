// Package models defines the client-side domain records: the six-step
// assessment answer set and the authenticated session.
package models

import (
	"fmt"

	"github.com/avelichka/skinform/internal/common"
)

// Enumerated choices offered by the wizard. A step record is only stored once
// its enum fields match one of these values.
var (
	AgeBrackets   = []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}
	SkinTypes     = []string{"Dry", "Oily", "Combination", "Normal", "Sensitive"}
	Climates      = []string{"Dry", "Humid", "Temperate", "Tropical", "Cold"}
	Genders       = []string{"Female", "Male", "Non-binary", "Prefer not to say"}
	DietTypes     = []string{"Omnivore", "Vegetarian", "Vegan", "Pescatarian", "Keto", "Other"}
	Supplements   = []string{"Vitamin C", "Vitamin D", "Vitamin E", "Collagen", "Omega-3", "Biotin"}
	SymptomNames  = []string{"Acne", "Dryness", "Redness", "Dark Spots", "Fine Lines", "Sensitivity"}
	JawlineTypes  = []string{"Defined", "Moderate", "Soft"}
	ChinShapes    = []string{"Prominent", "Balanced", "Recessed"}
	ExerciseFreqs = []string{"None", "Light", "Moderate", "High"}
	RoutineTags   = []string{"Morning", "Evening", "Both", "None"}
)

// Demographics is the step 1 payload.
type Demographics struct {
	Age               string `json:"age"`
	Gender            string `json:"gender"`
	SkinType          string `json:"skinType"`
	Climate           string `json:"climate"`
	IndoorOutdoorTime int    `json:"indoorOutdoorTime"`
}

// Dietary is the step 2 payload.
type Dietary struct {
	WaterIntake    int      `json:"waterIntake"`
	DietType       []string `json:"dietType"`
	Supplements    []string `json:"supplements"`
	Allergies      bool     `json:"allergies"`
	AllergyDetails string   `json:"allergyDetails,omitempty"`
	Caffeine       bool     `json:"caffeine"`
	Alcohol        bool     `json:"alcohol"`
}

// Symptom is a single (name, severity) pair selected in step 3.
type Symptom struct {
	Name     string `json:"name"`
	Severity int    `json:"severity"`
}

// Symptoms is the step 3 payload. An empty list means "none selected".
type Symptoms struct {
	Symptoms []Symptom `json:"symptoms"`
}

// Structure is the step 4 payload.
type Structure struct {
	JawlineType    string `json:"jawlineType"`
	ChinShape      string `json:"chinShape"`
	FacialSymmetry bool   `json:"facialSymmetry"`
}

// Lifestyle is the step 5 payload.
type Lifestyle struct {
	SleepHours        int      `json:"sleepHours"`
	ExerciseFrequency string   `json:"exerciseFrequency"`
	StressLevel       int      `json:"stressLevel"`
	SkincareRoutine   []string `json:"skincareRoutine"`
	ScreenTime        int      `json:"screenTime"`
}

// Photos is the step 6 payload: three optional opaque image references,
// either a local URI or an uploaded storage key.
type Photos struct {
	FrontPhoto *string `json:"frontPhoto"`
	LeftPhoto  *string `json:"leftPhoto"`
	RightPhoto *string `json:"rightPhoto"`
}

// AnswerSet aggregates the six optional step records. Each pointer is nil
// until its step has been completed.
type AnswerSet struct {
	Step1 *Demographics `json:"step1"`
	Step2 *Dietary      `json:"step2"`
	Step3 *Symptoms     `json:"step3"`
	Step4 *Structure    `json:"step4"`
	Step5 *Lifestyle    `json:"step5"`
	Step6 *Photos       `json:"step6"`
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

func inRange(v, lo, hi int) bool {
	return v >= lo && v <= hi
}

func enumErr(field, value string) error {
	return fmt.Errorf("%w: %s %q is not a valid choice", common.ErrValidation, field, value)
}

func rangeErr(field string, v, lo, hi int) error {
	return fmt.Errorf("%w: %s %d outside [%d,%d]", common.ErrValidation, field, v, lo, hi)
}

func (d *Demographics) Validate() error {
	switch {
	case !oneOf(d.Age, AgeBrackets):
		return enumErr("age", d.Age)
	case !oneOf(d.Gender, Genders):
		return enumErr("gender", d.Gender)
	case !oneOf(d.SkinType, SkinTypes):
		return enumErr("skin type", d.SkinType)
	case !oneOf(d.Climate, Climates):
		return enumErr("climate", d.Climate)
	case !inRange(d.IndoorOutdoorTime, 0, 100):
		return rangeErr("indoor/outdoor time", d.IndoorOutdoorTime, 0, 100)
	}
	return nil
}

func (d *Dietary) Validate() error {
	if !inRange(d.WaterIntake, 1, 8) {
		return rangeErr("water intake", d.WaterIntake, 1, 8)
	}
	for _, t := range d.DietType {
		if !oneOf(t, DietTypes) {
			return enumErr("diet type", t)
		}
	}
	for _, s := range d.Supplements {
		if !oneOf(s, Supplements) {
			return enumErr("supplement", s)
		}
	}
	return nil
}

func (s *Symptoms) Validate() error {
	for _, sym := range s.Symptoms {
		if !oneOf(sym.Name, SymptomNames) {
			return enumErr("symptom", sym.Name)
		}
		if !inRange(sym.Severity, 1, 5) {
			return rangeErr("severity", sym.Severity, 1, 5)
		}
	}
	return nil
}

func (s *Structure) Validate() error {
	if !oneOf(s.JawlineType, JawlineTypes) {
		return enumErr("jawline type", s.JawlineType)
	}
	if !oneOf(s.ChinShape, ChinShapes) {
		return enumErr("chin shape", s.ChinShape)
	}
	return nil
}

func (l *Lifestyle) Validate() error {
	switch {
	case !inRange(l.SleepHours, 4, 10):
		return rangeErr("sleep hours", l.SleepHours, 4, 10)
	case !oneOf(l.ExerciseFrequency, ExerciseFreqs):
		return enumErr("exercise frequency", l.ExerciseFrequency)
	case !inRange(l.StressLevel, 1, 5):
		return rangeErr("stress level", l.StressLevel, 1, 5)
	case !inRange(l.ScreenTime, 0, 12):
		return rangeErr("screen time", l.ScreenTime, 0, 12)
	}
	for _, r := range l.SkincareRoutine {
		if !oneOf(r, RoutineTags) {
			return enumErr("skincare routine", r)
		}
	}
	return nil
}

// Validate on Photos always succeeds: references are opaque and each of the
// three slots may independently be absent.
func (p *Photos) Validate() error { return nil }

// Clone returns a deep copy of the answer set, safe to hand to another
// goroutine or to a submission snapshot.
func (a *AnswerSet) Clone() *AnswerSet {
	c := &AnswerSet{}
	if a.Step1 != nil {
		v := *a.Step1
		c.Step1 = &v
	}
	if a.Step2 != nil {
		v := *a.Step2
		v.DietType = append([]string(nil), a.Step2.DietType...)
		v.Supplements = append([]string(nil), a.Step2.Supplements...)
		c.Step2 = &v
	}
	if a.Step3 != nil {
		v := Symptoms{Symptoms: append([]Symptom(nil), a.Step3.Symptoms...)}
		c.Step3 = &v
	}
	if a.Step4 != nil {
		v := *a.Step4
		c.Step4 = &v
	}
	if a.Step5 != nil {
		v := *a.Step5
		v.SkincareRoutine = append([]string(nil), a.Step5.SkincareRoutine...)
		c.Step5 = &v
	}
	if a.Step6 != nil {
		v := Photos{
			FrontPhoto: cloneRef(a.Step6.FrontPhoto),
			LeftPhoto:  cloneRef(a.Step6.LeftPhoto),
			RightPhoto: cloneRef(a.Step6.RightPhoto),
		}
		c.Step6 = &v
	}
	return c
}

func cloneRef(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StepsCompleted reports how many of the six steps are present.
func (a *AnswerSet) StepsCompleted() int {
	n := 0
	for _, present := range []bool{
		a.Step1 != nil, a.Step2 != nil, a.Step3 != nil,
		a.Step4 != nil, a.Step5 != nil, a.Step6 != nil,
	} {
		if present {
			n++
		}
	}
	return n
}
