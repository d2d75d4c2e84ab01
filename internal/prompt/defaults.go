package prompt

// Default templates. Every structured-output template embeds an example
// skeleton so the model's output shape is anchored, and demands JSON
// only with no additional text.

const defaultCoverLetterPrompt = `Write a tailored cover letter for this application.

Job Title: %s
Company: %s
Location: %s

Job Description:
-----
%s
-----

Candidate: %s

Candidate Resume:
-----
%s
-----

Tone guidance:
%s

Respond with JSON only, no additional text, exactly this shape:
{
  "location": "candidate city, country",
  "date": "Month D, YYYY",
  "recipient": {"name": "Hiring Manager", "company": "...", "location": "..."},
  "greeting": "Dear ...",
  "body": {
    "hook": "opening paragraph that hooks the reader",
    "skills": "paragraph connecting the candidate's experience to the role",
    "closing": "closing paragraph with a call to action"
  }
}`

const defaultSectionRefinePrompt = `Rewrite this resume section so it speaks directly to the job description. Preserve every fact; sharpen the language.

Section: %s

Current content:
-----
%s
-----

Job Description:
-----
%s
-----

Respond with JSON only, no additional text:
{"section": "section name", "content": "rewritten content"}`

const defaultBulletRefinePrompt = `Rewrite these resume bullets to target the job description. Keep every metric, start each bullet with a strong verb, stay within 20%% of the original length.

Bullets:
-----
%s
-----

Job Description:
-----
%s
-----

Respond with JSON only, no additional text:
{"bullets": ["rewritten bullet", "..."]}`

const defaultATSScorePrompt = `You are a brutally honest applicant tracking system. Score this resume against the job description. Most resumes deserve 40-70; reserve anything above 85 for near-perfect matches, and never award a perfect score.

Scoring criteria, 20 points each (total 100):
- keywordMatch: required skills and keywords present in the resume
- experienceRelevance: how directly past roles map to this one
- formatCompatibility: parseable structure, standard headings, no tables or graphics
- sectionCompleteness: summary, experience, skills, education all present
- clarityUniqueness: concrete accomplishments over generic filler

Resume:
-----
%s
-----

Job Description:
-----
%s
-----

Respond with JSON only, no additional text, exactly this shape:
{
  "score": 55,
  "feedback": ["specific observation", "..."],
  "breakdown": {
    "keywordMatch": 12,
    "experienceRelevance": 11,
    "formatCompatibility": 14,
    "sectionCompleteness": 10,
    "clarityUniqueness": 8
  },
  "improvements": ["specific actionable improvement", "..."]
}`

const defaultExtractionPrompt = `Extract the structured job fields from this posting text.

Posting text:
-----
%s
-----

Respond with JSON only, no additional text, exactly this shape:
{
  "jobTitle": "...",
  "companyName": "...",
  "location": "...",
  "description": "the core responsibilities and requirements text"
}
Use "Unknown Position", "Unknown Company" or "Unknown Location" when a field genuinely cannot be determined.`

const defaultSuggestionsPrompt = `Review this resume against the job description and list the highest-impact revisions.

Resume:
-----
%s
-----

Job Description:
-----
%s
-----

Respond with JSON only, no additional text:
{
  "suggestions": [
    {
      "type": "keyword|quantify|structure|relevance",
      "title": "short imperative title",
      "description": "what to change and why it matters for this job",
      "severity": "high|medium|low",
      "section": "which resume section this applies to"
    }
  ]
}`
