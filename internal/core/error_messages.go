// Error Code Reference
//
// This file maps technical errors to user-friendly messages with support codes.
// Each code is unique within its category and gives the user a next step.
//
// # Fetch Errors (FETCH001-FETCH099)
//
//	FETCH001 - Sheet download rejected: the export URL answered with a non-2xx status
//	           Action: Check the spreadsheet id and gid, and that the sheet is shared
//	           Match: *sheet.FetchError with a status code, sheet.ErrNotCSV
//
//	FETCH002 - Sheet unreachable: the request never got a response
//	           Action: Check your network connection and try again
//	           Match: *sheet.FetchError without a status code, "timeout"
//
//	FETCH003 - Sheet too large: the export exceeded the size limit
//	           Action: Raise MOBGEN_FETCH_MAX_BYTES or split the sheet
//	           Match: sheet.ErrTooLarge
//
//	FETCH004 - Busy: every download slot stayed taken
//	           Action: Wait a moment and try again
//	           Match: ErrTooManyFetches
//
// # Parse Errors (PARSE001-PARSE099)
//
//	PARSE001 - Invalid CSV: unterminated quote or inconsistent column count
//	           Action: Fix the reported line in the sheet
//	           Match: *sheet.ParseError
//
//	PARSE002 - Missing column: the header row lacks a required column
//	           Action: Add the column or rename the header
//	           Match: sheet.ErrMissingColumns
//
// # Write Errors (WRITE001-WRITE099)
//
//	WRITE001 - Permission denied writing an output file
//	           Action: Check permissions on the datapack directory
//	           Match: *WriteError wrapping fs.ErrPermission
//
//	WRITE002 - Output file could not be written
//	           Action: Check the path and free disk space
//	           Match: *WriteError
//
// # Generator Errors (GEN001-GEN099)
//
//	GEN001 - Unknown generator
//	         Action: Use one of the registered generators (mob, item)
//	         Match: ErrUnknownGenerator
//
// # Default Error (SYS001)
//
// Fallback when nothing matches. Check the logs for the original error.
//
// # Matching
//
// Typed errors are matched first with errors.Is / errors.As. Otherwise the
// lowercased error text is matched against errorPatterns in order; the
// first match wins.
package core

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/mobgen/internal/sheet"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgFetchStatus = UserMessage{
		Message: "The spreadsheet export could not be downloaded",
		Action:  "Check the spreadsheet id and gid, and that the sheet is shared",
		Code:    "FETCH001",
	}
	msgFetchNetwork = UserMessage{
		Message: "The spreadsheet could not be reached",
		Action:  "Check your network connection and try again",
		Code:    "FETCH002",
	}
	msgFetchTooLarge = UserMessage{
		Message: "The spreadsheet export is too large",
		Action:  "Raise MOBGEN_FETCH_MAX_BYTES or split the sheet",
		Code:    "FETCH003",
	}
	msgFetchBusy = UserMessage{
		Message: "Too many sheet downloads are running",
		Action:  "Wait a moment and try again",
		Code:    "FETCH004",
	}
	msgParseInvalid = UserMessage{
		Message: "The sheet is not valid CSV",
		Action:  "Fix the reported line in the sheet",
		Code:    "PARSE001",
	}
	msgParseMissing = UserMessage{
		Message: "The sheet is missing a required column",
		Action:  "Add the column or rename the header",
		Code:    "PARSE002",
	}
	msgWritePermission = UserMessage{
		Message: "Permission denied writing an output file",
		Action:  "Check permissions on the datapack directory",
		Code:    "WRITE001",
	}
	msgWriteFailed = UserMessage{
		Message: "An output file could not be written",
		Action:  "Check the path and free disk space",
		Code:    "WRITE002",
	}
	msgUnknownGenerator = UserMessage{
		Message: "Unknown generator",
		Action:  "Use one of the registered generators (mob, item)",
		Code:    "GEN001",
	}
)

// errorPattern maps an error text fragment to a user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns is consulted when no typed match applies.
// Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{pattern: "permission denied", msg: msgWritePermission},
	{pattern: "timeout", msg: msgFetchNetwork},
	{pattern: "connection refused", msg: msgFetchNetwork},
	{pattern: "no such host", msg: msgFetchNetwork},
	{pattern: "unknown generator", msg: msgUnknownGenerator},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the logs for details",
	Code:    "SYS001",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := svc.Generate(ctx, "mob", false)
//	msg := MapError(err)
//	// msg.Code == "FETCH001" when the sheet answered 404
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var fetchErr *sheet.FetchError
	var parseErr *sheet.ParseError
	var writeErr *WriteError

	switch {
	case errors.Is(err, ErrUnknownGenerator):
		return msgUnknownGenerator
	case errors.Is(err, ErrTooManyFetches):
		return msgFetchBusy
	case errors.Is(err, sheet.ErrTooLarge):
		return msgFetchTooLarge
	case errors.Is(err, sheet.ErrNotCSV):
		return msgFetchStatus
	case errors.As(err, &fetchErr):
		if fetchErr.StatusCode != 0 {
			return msgFetchStatus
		}
		return msgFetchNetwork
	case errors.Is(err, sheet.ErrMissingColumns):
		return msgParseMissing
	case errors.As(err, &parseErr):
		return msgParseInvalid
	case errors.As(err, &writeErr):
		if errors.Is(err, fs.ErrPermission) {
			return msgWritePermission
		}
		return msgWriteFailed
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than
// the SYS001 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
