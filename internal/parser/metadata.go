package parser

import (
	"regexp"
	"strings"
)

// Export names look like:
//
//	{TestName} [{DeviceName}({RunNumber}) ; {Date} {Time}]
//
// e.g. "Gate Sweep Ext [00_02(1) ; 12_4_2022 8_45_32 AM]". Each field is
// matched on its own so a partly mangled name still yields what it can.
var (
	testNameRe   = regexp.MustCompile(`^(.+)\[`)
	deviceNameRe = regexp.MustCompile(`^.+\[(.+)\(`)
	runNumberRe  = regexp.MustCompile(`^.+\[.*\((\d+)\)`)
	dateRe       = regexp.MustCompile(`^.+\[.*;\s(\S+)\s`)
	timeRe       = regexp.MustCompile(`^.+\[.*\b(\d+_\d+_\d+\s\w\w)\]`)
)

// ExtractMetadata derives FileMetadata from a file name. It never fails.
func ExtractMetadata(filename string) FileMetadata {
	return FileMetadata{
		TestName:   firstGroup(testNameRe, filename),
		DeviceName: firstGroup(deviceNameRe, filename),
		RunNumber:  firstGroup(runNumberRe, filename),
		Date:       firstGroup(dateRe, filename),
		Time:       firstGroup(timeRe, filename),
	}
}

func firstGroup(re *regexp.Regexp, s string) *string {
	match := re.FindStringSubmatch(s)
	if len(match) < 2 {
		return nil
	}
	v := strings.TrimSpace(match[1])
	return &v
}
