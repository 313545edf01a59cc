// Demo program to showcase the diagnosis browser with a realistic report.
package main

import (
	"fmt"
	"os"
	"time"

	"debugassist/src/contracts"
	"debugassist/src/diagnose"
	"debugassist/src/tui"
)

func main() {
	fmt.Println("Building a sample diagnosis...")
	report := sampleReport()

	fmt.Printf("Predicted %s with %d similar cases.\n",
		report.Prediction.Family, len(report.SimilarCases))
	fmt.Println("Launching TUI...")
	time.Sleep(500 * time.Millisecond) // Brief pause for effect

	if err := tui.Start(report); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func sampleReport() *diagnose.Report {
	conf := 0.87
	return &diagnose.Report{
		Prediction: contracts.PredictionResult{
			Family:     contracts.FamilyKeyError,
			Method:     contracts.MethodML,
			Confidence: &conf,
			Candidates: []contracts.Candidate{
				{Family: contracts.FamilyKeyError, Probability: 0.87},
				{Family: contracts.FamilyAttributeError, Probability: 0.07},
				{Family: contracts.FamilyValueError, Probability: 0.03},
			},
		},
		Checklists: []diagnose.Checklist{{
			Family: contracts.FamilyKeyError,
			Items: []string{
				"Print the dictionary keys right before the failing access.",
				"Use dict.get(key, default) when the key may be absent.",
				"Check for typos and case mismatches in the key name.",
			},
		}},
		SimilarCases: []contracts.SimilarCase{
			{
				ID:          "case-101",
				ErrorFamily: contracts.FamilyKeyError,
				ErrorText: `Traceback (most recent call last):
  File "migrate.py", line 45, in <module>
    process_row(row)
  File "migrate.py", line 23, in process_row
    user = row['customer_id']
KeyError: 'customer_id'`,
				FixText: "The CSV export renamed the column to customer_uuid. Read it with row.get('customer_uuid') and fall back to the legacy name.",
				Score:   0.93,
			},
			{
				ID:          "case-102",
				ErrorFamily: contracts.FamilyKeyError,
				ErrorText: `Traceback (most recent call last):
  File "app/handlers.py", line 88, in get_profile
    email = payload["email"]
KeyError: 'email'`,
				FixText: "Validate the request payload before use; the mobile client omits email for guest accounts.",
				Score:   0.81,
			},
			{
				ID:          "case-103",
				ErrorFamily: contracts.FamilyKeyError,
				ErrorText:   "KeyError: 'DJANGO_SETTINGS_MODULE'",
				FixText:     "Export DJANGO_SETTINGS_MODULE in the worker environment; os.environ[] raises when it is unset.",
				Score:       0.74,
			},
			{
				ID:          "case-104",
				ErrorFamily: contracts.FamilyAttributeError,
				ErrorText: `Traceback (most recent call last):
  File "report.py", line 12, in <module>
    total = summary.get("count").value
AttributeError: 'NoneType' object has no attribute 'value'`,
				FixText: "summary.get returned None for a missing key; check the lookup result before dereferencing.",
				Score:   0.52,
			},
		},
	}
}
