package ai

import (
	"fmt"
	"strings"

	"github.com/testpilot-ai/testpilot/pkg/schema"
)

// Prompt builders for each gateway operation. Each prompt describes the exact
// expected output document; the declared JSON Schema is appended separately
// by the client.

func generateCasesPrompt(url, description string) string {
	return fmt.Sprintf(`You are an expert QA Engineer AI specializing in web application testing.
Interpret the user's natural language description of a website and its key features or user journeys, and generate a concise list of 3 to 5 critical and diverse end-to-end UI test cases.

Target Website URL: %s
User's Description of Website and Features/Journeys to Test: %q

For each test case provide:
1. "id": a unique identifier string (e.g. "E2E-LOGIN-001").
2. "name": a short, descriptive name.
3. "description": a brief explanation of what this end-to-end case covers.
4. "stepsToReproduce": an array of clear, sequential step strings forming a complete user journey.
5. "expectedResult": the expected outcome after completing all steps.
6. "pytestSnippet": a brief, illustrative Pytest snippet (Playwright) for this case. Conceptual only.
7. "robotSnippet": a brief, illustrative Robot Framework snippet (SeleniumLibrary) for this case. Conceptual only.

Return a single JSON array of these test case objects and nothing else — no introductory text, no markdown.
If the description is vague, create reasonable, common end-to-end scenarios.`, url, description)
}

func simulatePrompt(targetURL string, tc schema.TestCase) string {
	steps := make([]string, len(tc.StepsToReproduce))
	for i, s := range tc.StepsToReproduce {
		steps[i] = fmt.Sprintf("%d. %s", i+1, s)
	}
	// The illustrative code snippets are deliberately excluded: the
	// simulation is based solely on the case's narrative fields.
	return fmt.Sprintf(`You are an AI Test Execution Simulator for UI tests.
Simulate the execution of the following UI test case on a conceptual website and determine its likely outcome. Base the simulation SOLELY on the test case name, description, steps, and expected result.

Website URL (for context): %s
Test Case to Simulate:
- ID: %s
- Name: %q
- Description: %q
- Steps to Reproduce:
%s
- Expected Result: %q

Respond with a single JSON object with these keys:
- "testCaseId": the ID of the simulated case (use %q).
- "status": either "passed" or "failed".
- "actualResult": a brief, plausible description of what happened during the simulation, as if providing a log.
- "healingSuggestion": if failed, a concise, actionable suggestion for a developer; if passed, null or an empty string.

Return ONLY the JSON object. No extra text or markdown.`,
		targetURL, tc.ID, tc.Name, tc.Description, strings.Join(steps, "\n"), tc.ExpectedResult, tc.ID)
}

func tipsPrompt() string {
	return `You are an AI QA Automation Expert.
Provide EXACTLY 3 general, actionable best practice tips for web test automation.
Each tip object must contain all of: "id" (e.g. "TIP-001"), "tip" (one or two concise sentences), and "category" (e.g. Selectors, Test Design, CI/CD, Architecture).

Return a single, valid JSON array containing exactly these 3 tip objects and nothing else. No markdown, no text outside the array. The entire response must be parsable JSON.`
}

func apiConceptPrompt(apiURL, method, headers, body, description string) string {
	if description == "" {
		description = "Test the API endpoint conceptually."
	}
	return fmt.Sprintf(`You are an AI API Testing Specialist. Conceptualize an API test based on the inputs below. This is conceptual generation, separate from any live API call.

User Inputs for Conceptualization:
- API Endpoint URL: %s
- HTTP Method: %s
- Headers (as serialized text or "None provided"): %s
- Request Body (as text or "Not applicable"): %s
- Test Description/Focus: %s

Return a single JSON object with ALL of the following keys (use placeholders such as "AI could not determine", an empty array, or a default status like 500 when unsure — never omit a key):
- "conceptualScript": a brief, illustrative API test script snippet (Karate-like Gherkin if the description implies BDD, otherwise generic pseudocode). Purely conceptual but plausible for the method and URL.
- "simulatedStatusCode": a plausible HTTP status code for this conceptual request. Default to 500 if unsure.
- "simulatedResponsePreview": a brief mock JSON response preview (3-5 lines) aligned with the simulated status code. Must be a valid JSON string.
- "conceptualTestSteps": 2-4 conceptual steps, each with "step" (string), "status" ("passed" or "failed"), and optional "details".
- "overallStatus": "passed", "failed", or "error". Generally "failed" when simulatedStatusCode >= 400. Default to "error" if unsure.

Return ONLY the JSON object — no extra text, no markdown.`, apiURL, method, headers, body, description)
}

func loadPlanPrompt(targetURL, captureFileName, description string) string {
	// Only the capture file's NAME travels here. Its contents are never read
	// or transmitted; the plan is synthesized from metadata.
	return fmt.Sprintf(`You are an AI Performance Engineering Specialist experienced with JMeter and network capture tools.
Generate a conceptual JMeter Test Plan (.jmx XML content) based on an imagined network capture.

The user has provided:
- Target Application URL (general hint): %s
- Capture File Name (for context only — imagine its contents, e.g. 'login_flow.saz' implies login requests): %s
- User Description of Application/Flows to test: %q

Imagine the typical HTTP requests such a capture would contain and generate the XML for a JMeter Test Plan simulating them. The JMX must include:
1. A TestPlan element (version="1.2", properties="5.0").
2. A ThreadGroup with reasonable defaults: num_threads="10", ramp_time="5", LoopController.loops="1".
3. Multiple HTTPSamplerProxy samplers for the imagined requests (domain and path derived from the target URL, appropriate methods, conceptual JSON bodies for POST/PUT), plus a HeaderManager for common headers.
4. A View Results Tree ResultCollector.

Respond with a single JSON object with keys:
- "jmxTestPlan": the complete, well-formed XML content as one continuous string, starting with <?xml version="1.0" encoding="UTF-8"?> and wrapped in <jmeterTestPlan>. Escape XML characters properly within the JSON string.
- "summaryMessage": a brief summary of what the generated plan conceptually covers.

Return ONLY the JSON object. No extra text or markdown.`, targetURL, captureFileName, description)
}

func codeScanPrompt(code, fileNameHint string) string {
	languageHint := "The language of the code is unknown; attempt to identify it or analyze generically."
	if fileNameHint != "" {
		languageHint = fmt.Sprintf("The code is likely from a file named %q. Infer the language if possible.", fileNameHint)
	}
	return fmt.Sprintf(`You are an expert Code Security Analyst AI.
Analyze the provided code for potential security vulnerabilities and suggest improvements based on best practices. This is a conceptual static analysis.

%s

Code to Analyze:
`+"```"+`
%s
`+"```"+`

Identify potential security flaws (OWASP Top 10 categories such as XSS, SQL Injection, Insecure Deserialization, Path Traversal, Command Injection, Broken Authentication, Sensitive Data Exposure, Security Misconfiguration, or other common vulnerabilities). For each flaw provide: "id", "description", "severity" ("High", "Medium", "Low", "Informational", or "Unknown"), optional "codeSnippet", optional "lineNumber", "explanation" (why it is a vulnerability and the impact), "suggestion" (how to fix it, with improved code where appropriate), and optional "bestPractices" (array of strings).

Also provide an overall "summary" of the code's security posture and, if confident, "languageDetected".

Return a single JSON object: {"summary": ..., "languageDetected": ..., "flaws": [...]}. If no obvious flaws are found, return an empty "flaws" array and a summary saying so. The entire output must be valid JSON.`, languageHint, code)
}

func accessibilityPrompt(url, focusDescription string) string {
	focus := "Perform a general conceptual accessibility check of the page."
	if focusDescription != "" {
		focus = fmt.Sprintf("User has specified a focus area: %q. Prioritize issues related to this area if applicable, but also perform a general conceptual check.", focusDescription)
	}
	return fmt.Sprintf(`You are an AI Web Accessibility Specialist (QA).
Conceptually analyze the given URL for common web accessibility issues based on WCAG 2.1/2.2 guidelines. This is a conceptual analysis, not a live page crawl. Consider the impact on users with visual, auditory, motor, and cognitive disabilities.

Target URL (for context): %s
%s

Identify 5 to 10 distinct, common accessibility issues that might be present on a typical page with this URL or description. For each issue provide: "id" (e.g. "A11Y-IMG-001"), "description", "severity" ("Critical", "Serious", "Moderate", or "Minor"), "wcagCriteria" (the primary WCAG 2.1/2.2 Success Criterion with its level, e.g. "1.1.1 Non-text Content (Level A)"), optional "elementSnippet" (a very brief conceptual HTML snippet), and "suggestion".

After the issues, provide a "summary" object with counts by severity: "totalIssues", "critical", "serious", "moderate", "minor".

Return a single JSON object: {"summary": {...}, "issues": [...]}. ONLY the JSON object — no extra text, no markdown.`, url, focus)
}
