package config

const (
	// MaxTemplateNameLength is the maximum length for template names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxTemplateNameLength = 255

	// MaxSectionTitleLength is the maximum length for section titles.
	MaxSectionTitleLength = 200

	// MaxSectionsPerTemplate caps how many sections one template may hold.
	MaxSectionsPerTemplate = 50

	// MaxSectionContentBytes caps the markup of a single section.
	// Inline data: images count toward this limit.
	MaxSectionContentBytes = 512 * 1024

	// MaxImageUploadBytes is the largest image accepted by the upload endpoint.
	MaxImageUploadBytes = 5 * 1024 * 1024

	// MaxMarkdownImportBytes is the largest markdown document accepted for import.
	MaxMarkdownImportBytes = 1024 * 1024

	// MaxCopyNameAttempts bounds the "(Copy N)" suffix search when duplicating.
	MaxCopyNameAttempts = 100
)
