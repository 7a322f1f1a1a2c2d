package workfront

import (
	"github.com/guhesse/script-wf-sub001/pkg/locator"
)

// Selector fallback tables for the Workfront UI. Order matters: the first
// entry is the selector observed most recently; later entries are older
// markups that still appear on tenants that lag behind the rollout. Hints
// are the visible labels heuristic discovery falls back on.
//
// When an operation starts failing, fix it here first.

var (
	// Object page shell, present once a project/task/issue page has rendered.
	selObjectShell = locator.Strategy{
		Name: "object.shell",
		Selectors: []string{
			"[data-testid='page-header']",
			"[data-testid='object-header']",
			"div[class*='page-header']",
			"#page-content",
		},
	}

	// Documents area.
	selDocAddButton = locator.Strategy{
		Name: "documents.add",
		Selectors: []string{
			"[data-testid='add-new-button']",
			"button[aria-label='Add new']",
			"button[class*='add-document']",
		},
		Hint: "Add new",
	}
	selDocUploadMenuItem = locator.Strategy{
		Name: "documents.add-menu.document",
		Selectors: []string{
			"[data-testid='add-document-option']",
			"li[role='menuitem'][data-value='document']",
			"[role='menuitem'][aria-label='Document']",
		},
		Hint: "Document",
	}
	selDocFileInput = locator.Strategy{
		Name: "documents.file-input",
		Selectors: []string{
			"input[data-testid='document-upload-input']",
			"input[type='file'][multiple]",
			"input[type='file']",
		},
	}
	selDocUploadProgress = locator.Strategy{
		Name: "documents.upload-progress",
		Selectors: []string{
			"[data-testid='upload-progress']",
			"div[class*='upload-progress']",
			"div[class*='uploading']",
		},
	}
	selDocRow = locator.Strategy{
		Name: "documents.row",
		Selectors: []string{
			"[data-testid='doc-list-item']",
			"div[class*='doc-item-title']",
			"a[class*='document-name']",
		},
	}
	selDocRowMenu = locator.Strategy{
		Name: "documents.row-menu",
		Selectors: []string{
			"[data-testid='doc-item-more-menu']",
			"button[aria-label='More options']",
			"button[class*='doc-actions']",
		},
		Hint: "More options",
	}
	selDocDownloadItem = locator.Strategy{
		Name: "documents.menu.download",
		Selectors: []string{
			"[data-testid='doc-menu-download']",
			"[role='menuitem'][data-value='download']",
		},
		Hint: "Download",
	}
	selDocShareItem = locator.Strategy{
		Name: "documents.menu.share",
		Selectors: []string{
			"[data-testid='doc-menu-share']",
			"[role='menuitem'][data-value='share']",
		},
		Hint: "Share",
	}

	// Share dialog.
	selShareDialog = locator.Strategy{
		Name: "share-dialog",
		Selectors: []string{
			"[data-testid='share-dialog']",
			"div[role='dialog'][aria-label*='haring']",
			"div[class*='sharing-dialog']",
		},
	}
	selShareRecipientInput = locator.Strategy{
		Name: "share-dialog.recipient-input",
		Selectors: []string{
			"[data-testid='share-typeahead-input']",
			"div[role='dialog'] input[placeholder*='eople']",
			"div[role='dialog'] input[type='text']",
		},
		Hint: "Give access to people or teams",
	}
	selShareSuggestion = locator.Strategy{
		Name: "share-dialog.suggestion",
		Selectors: []string{
			"[data-testid='typeahead-option']",
			"li[role='option']",
			"div[class*='typeahead-result']",
		},
		PickByLabel: true,
	}
	selShareAccessDropdown = locator.Strategy{
		Name: "share-dialog.access",
		Selectors: []string{
			"[data-testid='share-access-dropdown']",
			"div[role='dialog'] button[aria-haspopup='listbox']",
		},
		Hint: "View",
	}
	selShareAccessOption = locator.Strategy{
		Name: "share-dialog.access-option",
		Selectors: []string{
			"[data-testid='access-level-option']",
			"[role='listbox'] [role='option']",
		},
		PickByLabel: true,
	}
	selShareSubmit = locator.Strategy{
		Name: "share-dialog.submit",
		Selectors: []string{
			"[data-testid='share-save-button']",
			"div[role='dialog'] button[type='submit']",
			"div[role='dialog'] button[class*='primary']",
		},
		Hint: "Share",
	}

	// Update stream (comments).
	selCommentEditor = locator.Strategy{
		Name: "updates.editor",
		Selectors: []string{
			"[data-testid='update-stream-editor']",
			"div[contenteditable='true'][aria-label*='omment']",
			"div[class*='comment-editor'] div[contenteditable='true']",
			"textarea[placeholder*='update']",
		},
		Hint: "Start a new update",
	}
	selCommentSubmit = locator.Strategy{
		Name: "updates.submit",
		Selectors: []string{
			"[data-testid='update-submit-button']",
			"button[aria-label='Submit update']",
			"button[class*='comment-submit']",
		},
		Hint: "Update",
	}
	selMentionSuggestion = locator.Strategy{
		Name: "updates.mention-suggestion",
		Selectors: []string{
			"[data-testid='mention-option']",
			"li[role='option'][class*='mention']",
			"div[class*='mention-list'] li",
		},
		PickByLabel: true,
	}
	selCommentEntry = locator.Strategy{
		Name: "updates.entry",
		Selectors: []string{
			"[data-testid='update-entry']",
			"div[class*='update-stream-entry']",
			"article[class*='comment']",
		},
	}

	// Status control.
	selStatusControl = locator.Strategy{
		Name: "status.control",
		Selectors: []string{
			"[data-testid='status-dropdown']",
			"button[aria-label*='tatus']",
			"div[class*='status-selector'] button",
		},
		Hint: "Status",
	}
	selStatusOption = locator.Strategy{
		Name: "status.option",
		Selectors: []string{
			"[data-testid='status-option']",
			"li[role='option']",
			"[role='listbox'] [role='option']",
		},
		PickByLabel: true,
	}

	// Log time dialog.
	selLogTimeButton = locator.Strategy{
		Name: "hours.log-time",
		Selectors: []string{
			"[data-testid='log-time-button']",
			"button[aria-label='Log time']",
			"button[class*='log-time']",
		},
		Hint: "Log time",
	}
	selHoursInput = locator.Strategy{
		Name: "hours.input",
		Selectors: []string{
			"[data-testid='hours-input']",
			"div[role='dialog'] input[name='hours']",
			"div[role='dialog'] input[type='number']",
		},
		Hint: "Hours",
	}
	selHoursDateInput = locator.Strategy{
		Name: "hours.date",
		Selectors: []string{
			"[data-testid='hours-date-input']",
			"div[role='dialog'] input[name='entryDate']",
			"div[role='dialog'] input[placeholder*='ate']",
		},
		Hint: "Date",
	}
	selHoursNoteInput = locator.Strategy{
		Name: "hours.note",
		Selectors: []string{
			"[data-testid='hours-note-input']",
			"div[role='dialog'] textarea",
		},
		Hint: "Description",
	}
	selHoursSubmit = locator.Strategy{
		Name: "hours.submit",
		Selectors: []string{
			"[data-testid='log-time-save']",
			"div[role='dialog'] button[type='submit']",
			"div[role='dialog'] button[class*='primary']",
		},
		Hint: "Log time",
	}

	// Toast confirming a mutation went through.
	selSuccessToast = locator.Strategy{
		Name: "toast.success",
		Selectors: []string{
			"[data-testid='toast-success']",
			"div[class*='toast'][class*='success']",
			"div[role='alert'][class*='success']",
		},
	}
)
