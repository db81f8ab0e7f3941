package llm

import "fmt"

// BuildExtractionPrompt formats document text into the fixed instruction
// template. The template pins the exact output keys and demands a JSON
// array even when the text describes a single person.
func BuildExtractionPrompt(content string) string {
	return fmt.Sprintf(`The text below contains content from an email and documents. Extract structured data and return as a list of JSON objects with the following keys:
- name
- email
- number
- professional_summary
- project_name
- skills
Ensure all field values are strings (convert lists to comma-separated strings if needed).
Format:
[
    {
        "name": "...",
        "email": "...",
        "number": "...",
        "professional_summary": "...",
        "project_name": "...",
        "skills": "..."
    },
    ...
]
Text: %s`, content)
}

// BuildIntentPrompt asks for the one-line intent of an email body.
func BuildIntentPrompt(content string) string {
	return fmt.Sprintf(`Read the email content below and identify the main intent or purpose in one line.
Examples: Invitation for interview, Rejection letter, Offer letter, Request for documents, Acknowledgement, General update

Email Content:
"""
%s
"""

Respond with only the intent`, content)
}
