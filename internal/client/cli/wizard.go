package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/avelichka/skinform/internal/client/form"
	"github.com/avelichka/skinform/internal/client/models"
)

// Step runs the questionnaire for a single step and stores the answers.
// Answers are validated by the form engine before anything is persisted.
func (a *App) Step(ctx context.Context, n int) error {
	var (
		record form.StepRecord
		err    error
	)

	switch n {
	case 1:
		record, err = a.askDemographics()
	case 2:
		record, err = a.askDietary()
	case 3:
		record, err = a.askSymptoms()
	case 4:
		record, err = a.askStructure()
	case 5:
		record, err = a.askLifestyle()
	case 6:
		record, err = a.askPhotos(ctx)
	default:
		fmt.Println("Steps run from 1 to 6.")
		return nil
	}
	if err != nil {
		return err
	}

	if err := a.formEngine.UpdateStep(n, record); err != nil {
		fmt.Println("Could not store the answers:", err)
		return nil
	}
	fmt.Printf("Step %d saved.\n", n)
	return nil
}

// Next records the current step (if not yet answered, it is run first) and
// moves the wizard forward.
func (a *App) Next(ctx context.Context) error {
	n := a.formEngine.CurrentStep()
	if err := a.Step(ctx, n); err != nil {
		return err
	}
	if next := a.formEngine.Advance(); next != n {
		fmt.Printf("Now on step %d of 6.\n", next)
	} else {
		fmt.Println("This is the last step. Type \"review\" to check your answers.")
	}
	return nil
}

// Back moves the wizard to the previous step without touching stored answers.
func (a *App) Back(ctx context.Context) error {
	fmt.Printf("Now on step %d of 6.\n", a.formEngine.Retreat())
	return nil
}

func (a *App) askDemographics() (*models.Demographics, error) {
	age, err := GetChoice(a.reader, "How old are you?", models.AgeBrackets, stdout)
	if err != nil {
		return nil, err
	}
	gender, err := GetChoice(a.reader, "How do you identify?", models.Genders, stdout)
	if err != nil {
		return nil, err
	}
	skin, err := GetChoice(a.reader, "What is your skin type?", models.SkinTypes, stdout)
	if err != nil {
		return nil, err
	}
	climate, err := GetChoice(a.reader, "What climate do you live in?", models.Climates, stdout)
	if err != nil {
		return nil, err
	}
	outdoor, err := GetInt(a.reader, "How much of your day is spent outdoors, as a percentage?", 0, 100, stdout)
	if err != nil {
		return nil, err
	}
	return &models.Demographics{
		Age:               age,
		Gender:            gender,
		SkinType:          skin,
		Climate:           climate,
		IndoorOutdoorTime: outdoor,
	}, nil
}

func (a *App) askDietary() (*models.Dietary, error) {
	water, err := GetInt(a.reader, "How many glasses of water do you drink per day?", 1, 8, stdout)
	if err != nil {
		return nil, err
	}
	diet, err := GetMultiChoice(a.reader, "Which of these describe your diet?", models.DietTypes, stdout)
	if err != nil {
		return nil, err
	}
	supplements, err := GetMultiChoice(a.reader, "Which supplements do you take?", models.Supplements, stdout)
	if err != nil {
		return nil, err
	}
	allergies, err := GetYesNo(a.reader, "Do you have any food allergies?", stdout)
	if err != nil {
		return nil, err
	}
	details := ""
	if allergies {
		details, err = GetSimpleText(a.reader, "Which ones?", stdout)
		if err != nil {
			return nil, err
		}
	}
	caffeine, err := GetYesNo(a.reader, "Do you drink caffeine regularly?", stdout)
	if err != nil {
		return nil, err
	}
	alcohol, err := GetYesNo(a.reader, "Do you drink alcohol regularly?", stdout)
	if err != nil {
		return nil, err
	}
	return &models.Dietary{
		WaterIntake:    water,
		DietType:       diet,
		Supplements:    supplements,
		Allergies:      allergies,
		AllergyDetails: details,
		Caffeine:       caffeine,
		Alcohol:        alcohol,
	}, nil
}

func (a *App) askSymptoms() (*models.Symptoms, error) {
	names, err := GetMultiChoice(a.reader, "Which skin concerns do you have?", models.SymptomNames, stdout)
	if err != nil {
		return nil, err
	}
	record := &models.Symptoms{}
	for _, name := range names {
		severity, err := GetInt(a.reader, fmt.Sprintf("How severe is %q?", name), 1, 5, stdout)
		if err != nil {
			return nil, err
		}
		record.Symptoms = append(record.Symptoms, models.Symptom{Name: name, Severity: severity})
	}
	return record, nil
}

func (a *App) askStructure() (*models.Structure, error) {
	jawline, err := GetChoice(a.reader, "How would you describe your jawline?", models.JawlineTypes, stdout)
	if err != nil {
		return nil, err
	}
	chin, err := GetChoice(a.reader, "How would you describe your chin?", models.ChinShapes, stdout)
	if err != nil {
		return nil, err
	}
	symmetry, err := GetYesNo(a.reader, "Would you say your face is largely symmetrical?", stdout)
	if err != nil {
		return nil, err
	}
	return &models.Structure{JawlineType: jawline, ChinShape: chin, FacialSymmetry: symmetry}, nil
}

func (a *App) askLifestyle() (*models.Lifestyle, error) {
	sleep, err := GetInt(a.reader, "How many hours do you sleep per night?", 4, 10, stdout)
	if err != nil {
		return nil, err
	}
	exercise, err := GetChoice(a.reader, "How often do you exercise?", models.ExerciseFreqs, stdout)
	if err != nil {
		return nil, err
	}
	stress, err := GetInt(a.reader, "How stressed are you on a typical day?", 1, 5, stdout)
	if err != nil {
		return nil, err
	}
	routine, err := GetMultiChoice(a.reader, "When do you follow a skincare routine?", models.RoutineTags, stdout)
	if err != nil {
		return nil, err
	}
	screen, err := GetInt(a.reader, "How many hours of screen time per day?", 0, 12, stdout)
	if err != nil {
		return nil, err
	}
	return &models.Lifestyle{
		SleepHours:        sleep,
		ExerciseFrequency: exercise,
		StressLevel:       stress,
		SkincareRoutine:   routine,
		ScreenTime:        screen,
	}, nil
}

// askPhotos collects up to three local photo paths and uploads each one
// straight away so the stored record carries server-side keys. An empty path
// skips the slot.
func (a *App) askPhotos(ctx context.Context) (*models.Photos, error) {
	record := &models.Photos{}
	for _, slot := range []struct {
		label string
		dst   **string
	}{
		{"front", &record.FrontPhoto},
		{"left profile", &record.LeftPhoto},
		{"right profile", &record.RightPhoto},
	} {
		path, err := GetSimpleText(a.reader,
			fmt.Sprintf("Path to your %s photo (empty to skip)", slot.label), stdout)
		if err != nil {
			return nil, err
		}
		if !a.isLoggedIn() {
			// Keep the local reference; it is uploaded during submit.
			if path != "" {
				*slot.dst = &path
			}
			continue
		}
		key, err := a.uploader.Upload(ctx, path)
		if err != nil {
			fmt.Printf("Could not upload the %s photo: %v. Keeping the local path.\n", slot.label, err)
			*slot.dst = &path
			continue
		}
		*slot.dst = key
	}
	return record, nil
}

// Review prints the stored answers step by step.
func (a *App) Review(ctx context.Context) error {
	s := a.formEngine.Snapshot()
	fmt.Printf("Completed %d of 6 steps.\n", s.StepsCompleted())

	if s.Step1 != nil {
		fmt.Printf("1. Demographics: %s, %s, %s skin, %s climate, %d%% outdoors\n",
			s.Step1.Age, s.Step1.Gender, s.Step1.SkinType, s.Step1.Climate, s.Step1.IndoorOutdoorTime)
	}
	if s.Step2 != nil {
		fmt.Printf("2. Diet: %d glasses of water, diet %s, supplements %s\n",
			s.Step2.WaterIntake, joinOrNone(s.Step2.DietType), joinOrNone(s.Step2.Supplements))
	}
	if s.Step3 != nil {
		if len(s.Step3.Symptoms) == 0 {
			fmt.Println("3. Symptoms: none")
		} else {
			var parts []string
			for _, sym := range s.Step3.Symptoms {
				parts = append(parts, fmt.Sprintf("%s (%d/5)", sym.Name, sym.Severity))
			}
			fmt.Printf("3. Symptoms: %s\n", strings.Join(parts, ", "))
		}
	}
	if s.Step4 != nil {
		fmt.Printf("4. Structure: %s jawline, %s chin, symmetrical: %v\n",
			s.Step4.JawlineType, s.Step4.ChinShape, s.Step4.FacialSymmetry)
	}
	if s.Step5 != nil {
		fmt.Printf("5. Lifestyle: %dh sleep, %s exercise, stress %d/5, routine %s, %dh screens\n",
			s.Step5.SleepHours, s.Step5.ExerciseFrequency, s.Step5.StressLevel,
			joinOrNone(s.Step5.SkincareRoutine), s.Step5.ScreenTime)
	}
	if s.Step6 != nil {
		n := 0
		for _, p := range []*string{s.Step6.FrontPhoto, s.Step6.LeftPhoto, s.Step6.RightPhoto} {
			if p != nil {
				n++
			}
		}
		fmt.Printf("6. Photos: %d of 3 provided\n", n)
	}
	if err := a.formEngine.SaveErr(); err != nil {
		fmt.Println("Warning: the latest answers could not be written to disk:", err)
	}
	return nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// Submit sends the current answers for analysis and remembers the returned
// recommendation id so "plan" can fetch the protocol.
func (a *App) Submit(ctx context.Context) error {
	snapshot := a.formEngine.Snapshot()
	if done := snapshot.StepsCompleted(); done < 5 || snapshot.Step5 == nil {
		fmt.Println("Please complete steps 1-5 before submitting (photos are optional).")
		return nil
	}

	if err := a.uploadPendingPhotos(ctx, snapshot); err != nil {
		fmt.Println("Could not upload your photos:", err)
		return nil
	}

	fmt.Println("Submitting your assessment...")
	receipt, err := a.pipeline.Submit(ctx, snapshot)
	if err != nil {
		fmt.Println("Submission failed:", err)
		return nil
	}

	a.lastReceiptID = receipt.RecommendationID
	if receipt.Message != "" {
		fmt.Println(receipt.Message)
	}
	fmt.Println("Your personalized plan is ready. Type \"plan\" to see it.")
	return nil
}

// uploadPendingPhotos replaces local photo paths left over from an anonymous
// session with uploaded keys.
func (a *App) uploadPendingPhotos(ctx context.Context, s *models.AnswerSet) error {
	if s.Step6 == nil {
		return nil
	}
	changed := false
	for _, ref := range []**string{&s.Step6.FrontPhoto, &s.Step6.LeftPhoto, &s.Step6.RightPhoto} {
		p := *ref
		if p == nil || !looksLikePath(*p) {
			continue
		}
		key, err := a.uploader.Upload(ctx, *p)
		if err != nil {
			return err
		}
		*ref = key
		changed = true
	}
	if changed {
		return a.formEngine.UpdateStep(6, s.Step6)
	}
	return nil
}

// looksLikePath distinguishes a local file reference from an uploaded storage
// key. Keys are generated server-side and never contain path separators.
func looksLikePath(s string) bool {
	return strings.ContainsAny(s, "/\\.")
}

// Plan fetches and prints the daily protocol for the latest submission.
func (a *App) Plan(ctx context.Context) error {
	if a.lastReceiptID == "" {
		id, err := GetSimpleText(a.reader, "Recommendation id", stdout)
		if err != nil {
			return err
		}
		if id == "" {
			fmt.Println("Submit an assessment first, or provide a recommendation id.")
			return nil
		}
		a.lastReceiptID = id
	}

	protocol, err := a.apiClient.GetPlan(ctx, a.lastReceiptID)
	if err != nil {
		fmt.Println("Could not fetch your plan:", err)
		return nil
	}

	fmt.Printf("\n%s (%d days)\n%s\n", protocol.RoutineName, protocol.TotalDays, protocol.Overview)
	if len(protocol.RootCauseAnalysis.IdentifiedIssues) > 0 {
		fmt.Println("\nWhat we found:")
		for _, issue := range protocol.RootCauseAnalysis.IdentifiedIssues {
			fmt.Println("  -", issue)
		}
	}
	for _, day := range protocol.Days {
		fmt.Printf("\nDay %d: %s\n", day.DayNumber, day.FocusArea)
		for _, action := range day.Actions {
			line := "  * " + action.Title
			if action.TimeOfDay != "" {
				line += " (" + action.TimeOfDay + ")"
			}
			fmt.Println(line)
			if action.Description != "" {
				fmt.Println("    ", action.Description)
			}
		}
	}
	if len(protocol.GeneralTips) > 0 {
		fmt.Println("\nTips:")
		for _, tip := range protocol.GeneralTips {
			fmt.Println("  -", tip)
		}
	}
	return nil
}

// Restart wipes the stored answers after a confirmation.
func (a *App) Restart(ctx context.Context) error {
	ok, err := GetYesNo(a.reader, "Delete all your answers and start over?", stdout)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := a.formEngine.Reset(ctx); err != nil {
		fmt.Println("Could not clear the stored answers:", err)
		return nil
	}
	if err := a.pipeline.ClearKey(ctx); err != nil {
		fmt.Println("Could not clear the stored submission key:", err)
	}
	fmt.Println("All answers cleared.")
	return nil
}
