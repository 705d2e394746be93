package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// движок правил
	EngInfo                Code = 1000
	EngineRuleFailed       Code = 1001
	EngineCorrectionFailed Code = 1002

	// применение исправлений
	FixInfo        Code = 2000
	FixConflict    Code = 2001
	FixOutOfRange  Code = 2002
	FixStale       Code = 2003
	FixNotConverge Code = 2004

	// разбор исходника
	ParseInfo         Code = 3000
	ParseError        Code = 3001
	ParseSyntaxError  Code = 3002
	ParseFileTooLarge Code = 3003
	ParseInvalidText  Code = 3004

	IOLoadFile  Code = 4001
	IOWriteFile Code = 4002
	FileTimeout Code = 4003

	CfgInfo           Code = 5000
	ConfigUnknownRule Code = 5001
	ConfigInvalid     Code = 5002

	ObsInfo       Code = 6000
	ObsTimings    Code = 6001
	ObsSuppressed Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		EngInfo:                "Engine information",
		EngineRuleFailed:       "Rule failed while inspecting a node",
		EngineCorrectionFailed: "Rule failed while building a correction",
		FixInfo:                "Fix information",
		FixConflict:            "Correction overlaps an accepted correction",
		FixOutOfRange:          "Correction span is outside the file",
		FixStale:               "Correction guard does not match the source",
		FixNotConverge:         "Autocorrection did not converge",
		ParseInfo:              "Parser information",
		ParseError:             "Parser failure",
		ParseSyntaxError:       "Syntax error",
		ParseFileTooLarge:      "File too large to parse",
		ParseInvalidText:       "File is not valid UTF-8 text",
		IOLoadFile:             "I/O load file error",
		IOWriteFile:            "I/O write file error",
		FileTimeout:            "File inspection timed out",
		CfgInfo:                "Configuration information",
		ConfigUnknownRule:      "Unknown rule in configuration",
		ConfigInvalid:          "Invalid configuration",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
		ObsSuppressed:          "Diagnostics over the per-file limit",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("ENG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("FIX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
