package services

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ResumeData holds the fields pulled out of a candidate's resume PDF.
type ResumeData struct {
	Name            string
	Email           string
	MobileNumber    string
	Skills          string
	Degree          string
	Designation     string
	TotalExperience float64
}

// ResumeParser extracts structured hints from resume PDFs. Parsing is best
// effort: a resume that defeats the heuristics yields empty fields, not an
// error that blocks the profile update.
type ResumeParser interface {
	Parse(filePath string) (*ResumeData, error)
}

type resumeParser struct{}

func NewResumeParser() ResumeParser {
	return &resumeParser{}
}

var (
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern      = regexp.MustCompile(`\+?\d[\d\s\-().]{7,}\d`)
	experiencePattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*\+?\s*years?`)
)

var knownSkills = []string{
	"python", "java", "javascript", "typescript", "golang", "c++", "c#",
	"sql", "html", "css", "react", "angular", "vue", "django", "flask",
	"spring", "node", "docker", "kubernetes", "aws", "azure", "gcp", "git",
	"linux", "machine learning", "data analysis", "excel", "communication",
	"leadership", "project management",
}

var degreeKeywords = []string{
	"bachelor", "master", "phd", "mba", "b.sc", "m.sc", "b.tech", "m.tech",
	"bca", "mca",
}

var designationKeywords = []string{
	"engineer", "developer", "manager", "analyst", "consultant", "designer",
	"architect", "scientist", "administrator", "intern",
}

// Parse implements ResumeParser.
func (p *resumeParser) Parse(filePath string) (*ResumeData, error) {
	text, err := extractPDFText(filePath)
	if err != nil {
		return nil, err
	}

	text = CleanText(text)
	lower := strings.ToLower(text)
	lines := strings.Split(text, "\n")

	data := &ResumeData{
		Email:        emailPattern.FindString(text),
		MobileNumber: strings.TrimSpace(phonePattern.FindString(text)),
		Name:         guessName(lines),
		Degree:       firstLineContaining(lines, degreeKeywords),
		Designation:  firstLineContaining(lines, designationKeywords),
	}

	var skills []string
	for _, skill := range knownSkills {
		if strings.Contains(lower, skill) {
			skills = append(skills, skill)
		}
	}
	data.Skills = strings.Join(skills, ", ")

	if m := experiencePattern.FindStringSubmatch(text); len(m) == 2 {
		if years, err := strconv.ParseFloat(m[1], 64); err == nil {
			data.TotalExperience = years
		}
	}

	return data, nil
}

func extractPDFText(filePath string) (string, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return "", fmt.Errorf("file does not exist: %s", filePath)
	}

	f, r, err := pdf.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep the rest
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	text := textBuilder.String()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content found in PDF")
	}

	return text, nil
}

// guessName returns the first plausible header line: short, alphabetic and
// not a document label.
func guessName(lines []string) string {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || len(line) > 60 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "resume") || strings.Contains(lower, "curriculum") {
			continue
		}
		if strings.ContainsAny(line, "0123456789@") {
			continue
		}
		return line
	}
	return ""
}

func firstLineContaining(lines []string, keywords []string) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				line = strings.TrimSpace(line)
				if len(line) > 120 {
					line = line[:120]
				}
				return line
			}
		}
	}
	return ""
}

// CleanText trims every line and drops empty ones.
func CleanText(text string) string {
	text = strings.TrimSpace(text)

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
