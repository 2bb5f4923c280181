package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"smarthire/internal/models"
	"smarthire/internal/repositories"
	"smarthire/internal/services"
)

type CandidateHandler struct {
	candidateRepo repositories.CandidateRepository
	storage       services.StorageService
	resumeParser  services.ResumeParser
	personality   services.PersonalityPredictor
	maxFileSize   int64
}

func NewCandidateHandler(
	candidateRepo repositories.CandidateRepository,
	storage services.StorageService,
	resumeParser services.ResumeParser,
	personality services.PersonalityPredictor,
	maxFileSize int64,
) *CandidateHandler {
	return &CandidateHandler{
		candidateRepo: candidateRepo,
		storage:       storage,
		resumeParser:  resumeParser,
		personality:   personality,
		maxFileSize:   maxFileSize,
	}
}

// HandleCreate handles POST /candidates
func (h *CandidateHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CreateCandidateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	if req.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "full_name is required",
		})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "email is required",
		})
	}

	if _, err := h.candidateRepo.FindByEmail(req.Email); err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A candidate with this email already exists",
		})
	}

	candidate := &models.Candidate{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}

	if err := h.candidateRepo.Create(candidate); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create candidate",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(candidate)
}

// HandleGetProfile handles GET /candidates/:id/profile
func (h *CandidateHandler) HandleGetProfile(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	profile, err := h.candidateRepo.FindProfile(candidateID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}

	return c.JSON(profile)
}

// HandleUpdateProfile handles POST /candidates/:id/profile. The request is a
// multipart form carrying an optional resume PDF plus demographic fields and
// the five OCEAN trait scores. Resume parsing and personality prediction are
// best effort: their failure never rejects the profile update.
func (h *CandidateHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	candidateID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid candidate ID format",
		})
	}

	if _, err := h.candidateRepo.FindByID(candidateID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Candidate not found",
		})
	}

	profile := &models.CandidateProfile{
		CandidateID: candidateID,
		Gender:      c.FormValue("gender"),
	}

	if existing, err := h.candidateRepo.FindProfile(candidateID); err == nil {
		profile = existing
		if gender := c.FormValue("gender"); gender != "" {
			profile.Gender = gender
		}
	}

	profile.Age = formInt(c, "age", profile.Age)
	profile.Openness = formInt(c, "openness", profile.Openness)
	profile.Conscientiousness = formInt(c, "conscientiousness", profile.Conscientiousness)
	profile.Extraversion = formInt(c, "extraversion", profile.Extraversion)
	profile.Agreeableness = formInt(c, "agreeableness", profile.Agreeableness)
	profile.Neuroticism = formInt(c, "neuroticism", profile.Neuroticism)

	if file, err := c.FormFile("resume"); err == nil {
		if file.Size > h.maxFileSize {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
			})
		}

		ref, err := h.storage.SaveUpload(file, services.MediaKindResume)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("failed to save resume: %v", err),
			})
		}
		profile.ResumeRef = &ref

		h.applyResumeData(profile, ref)
	}

	h.applyPersonality(c, profile)

	if err := h.candidateRepo.SaveProfile(profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save profile",
		})
	}

	return c.JSON(profile)
}

func (h *CandidateHandler) applyResumeData(profile *models.CandidateProfile, resumeRef string) {
	data, err := h.resumeParser.Parse(h.storage.Path(resumeRef))
	if err != nil {
		// Unreadable resumes degrade to an unparsed profile.
		return
	}

	if data.Skills != "" {
		profile.Skills = data.Skills
	}
	if data.Degree != "" {
		profile.Degree = data.Degree
	}
	if data.Designation != "" {
		profile.Designation = data.Designation
	}
	if data.TotalExperience > 0 {
		profile.TotalExperience = &data.TotalExperience
	}
}

func (h *CandidateHandler) applyPersonality(c *fiber.Ctx, profile *models.CandidateProfile) {
	if !profile.HasAllTraits() || profile.Age == nil {
		return
	}

	traits := services.PersonalityTraits{
		Gender:            profile.Gender,
		Age:               *profile.Age,
		Openness:          *profile.Openness,
		Conscientiousness: *profile.Conscientiousness,
		Extraversion:      *profile.Extraversion,
		Agreeableness:     *profile.Agreeableness,
		Neuroticism:       *profile.Neuroticism,
	}

	label, err := h.personality.Predict(c.Context(), traits)
	if err != nil {
		// Prediction is advisory; keep whatever label the profile had.
		return
	}
	profile.PredictedPersonality = label
}

// formInt parses an optional integer form field, keeping the previous value
// when the field is absent or malformed.
func formInt(c *fiber.Ctx, key string, previous *int) *int {
	raw := c.FormValue(key)
	if raw == "" {
		return previous
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return previous
	}
	return &v
}
