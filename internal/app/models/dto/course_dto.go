package dto

// CourseFilterRequest holds the optional catalog filters. All predicates are
// combined with AND; Search matches title or description case-insensitively.
type CourseFilterRequest struct {
	Search     string `form:"search"`
	Category   string `form:"category"`
	Difficulty string `form:"difficulty"`
	Instructor string `form:"instructor"`
}

// CreateCourseRequest represents a course creation request
type CreateCourseRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	Instructor    *string `json:"instructor,omitempty"`
	Category      string  `json:"category" binding:"required"`
	Difficulty    *string `json:"difficulty,omitempty"`
	DurationHours *int    `json:"durationHours,omitempty" binding:"omitempty,min=0"`
	ThumbnailURL  *string `json:"thumbnailUrl,omitempty"`
}

// UpdateCourseRequest represents a course update request
type UpdateCourseRequest struct {
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description" binding:"required"`
	Instructor    *string `json:"instructor,omitempty"`
	Category      string  `json:"category" binding:"required"`
	Difficulty    *string `json:"difficulty,omitempty"`
	DurationHours *int    `json:"durationHours,omitempty" binding:"omitempty,min=0"`
	ThumbnailURL  *string `json:"thumbnailUrl,omitempty"`
}

// CreateLessonRequest represents a lesson creation request
type CreateLessonRequest struct {
	Title    string `json:"title" binding:"required"`
	VideoURL string `json:"videoUrl" binding:"required,url"`
	Position int    `json:"position" binding:"min=0"`
}

// UpdateLessonRequest represents a lesson update request
type UpdateLessonRequest struct {
	Title    string `json:"title" binding:"required"`
	VideoURL string `json:"videoUrl" binding:"required,url"`
	Position int    `json:"position" binding:"min=0"`
}
