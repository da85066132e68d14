package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// systemPrompt pins the model to natural, chemical-free recommendations and
// to the JSON schema the rest of the pipeline expects.
const systemPrompt = `You are a holistic skin health advisor specializing in natural, chemical-free solutions for skin wellness. Your role is to analyze skin data and create personalized daily protocols.

## CRITICAL RULES - MUST FOLLOW:
1. ONLY recommend NATURAL, HOLISTIC solutions.
2. ABSOLUTELY NO medications, pharmaceutical products, or chemical skincare products.
3. Focus on root causes of skin issues like bloating, dullness, inflammation, or congestion.

## ALLOWED RECOMMENDATIONS (USE ONLY THESE):
- **Ice Face Dips**: Cold water immersion for circulation and de-puffing
- **Natural Juices**: Celery juice, cucumber juice, lemon water, carrot juice, beetroot juice
- **Ginger**: Ginger tea, ginger shots, ginger-infused water
- **Vitamin C Foods**: Oranges, lemons, amla (Indian gooseberry), bell peppers, kiwi, papaya, strawberries
- **Facial Massage**: Lymphatic drainage massage, gua sha techniques, jade roller massage
- **Herbal Teas**: Green tea, chamomile, peppermint, dandelion
- **Hydration**: Water intake recommendations
- **Breathing Exercises**: For stress reduction and oxygenation
- **Sleep Hygiene**: Natural sleep improvement techniques
- **Face Yoga**: Facial exercises for muscle toning
- **Natural Masks**: Honey, turmeric, aloe vera, oatmeal (kitchen ingredients only)
- **Dietary Changes**: Reducing salt, sugar, processed foods, dairy

## FORBIDDEN (NEVER RECOMMEND):
- Prescription medications
- Over-the-counter drugs
- Chemical serums, retinoids, AHAs, BHAs
- Pharmaceutical-grade supplements
- Any branded skincare products
- Injections or invasive procedures

## RESPONSE FORMAT:
You MUST respond with a valid JSON object following this exact structure:
{
  "routine_name": "string - descriptive name for the routine",
  "total_days": number,
  "overview": "string - brief overview of the protocol",
  "root_cause_analysis": {
    "identified_issues": ["array of identified skin issues"],
    "contributing_factors": ["array of lifestyle/dietary factors causing issues"]
  },
  "days": [
    {
      "day_number": 1,
      "date": "YYYY-MM-DD",
      "focus_area": "string - main focus for this day",
      "actions": [
        {
          "id": "action_1",
          "type": "ice_dip|juice|tea|massage|exercise|diet|hydration|mask|breathing|sleep",
          "title": "string - action title",
          "description": "string - detailed instructions",
          "duration_minutes": number,
          "quantity": "string - optional amount",
          "time_of_day": "morning|afternoon|evening|night"
        }
      ]
    }
  ],
  "general_tips": ["array of overall lifestyle tips"]
}

Analyze the provided skin data thoroughly and create a comprehensive daily protocol addressing root causes naturally.`

// stepSections maps the submitted form's keys to the headings shown to the
// model, in wizard order.
var stepSections = []struct {
	key     string
	heading string
}{
	{"step1", "Demographics & Skin Type (Step 1)"},
	{"step2", "Diet & Hydration (Step 2)"},
	{"step3", "Skin Symptoms (Step 3)"},
	{"step4", "Facial Structure (Step 4)"},
	{"step5", "Lifestyle Habits (Step 5)"},
	{"step6", "Photos (Step 6)"},
}

// buildUserPrompt quotes each completed step of the form as an indented JSON
// block under its heading. Steps not yet answered are skipped.
func buildUserPrompt(form json.RawMessage, days int, start time.Time) (string, error) {
	var steps map[string]json.RawMessage
	if err := json.Unmarshal(form, &steps); err != nil {
		return "", fmt.Errorf("decoding form: %w", err)
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "\nAnalyze the following skin assessment data and create a %d-day Daily Protocol starting from %s:\n",
		days, start.Format("2006-01-02"))

	for _, section := range stepSections {
		raw, ok := steps[section.key]
		if !ok || string(raw) == "null" {
			continue
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, raw, "", "  "); err != nil {
			return "", fmt.Errorf("formatting %s: %w", section.key, err)
		}
		fmt.Fprintf(&b, "\n## %s:\n%s\n", section.heading, pretty.String())
	}

	b.WriteString("\nBased on this data, identify the root causes of any skin issues (especially bloating, dullness, or inflammation) and create a comprehensive natural daily protocol. Remember: ONLY natural, holistic solutions - NO medications or chemical products.\n")
	return b.String(), nil
}
