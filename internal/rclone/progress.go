package rclone

import (
	"regexp"
	"strconv"
	"strings"
)

// TransferStats aggregates the figures rclone reports in its periodic stats
// block. Fields stay at their zero value until the matching line is seen.
type TransferStats struct {
	BytesDone   int64
	BytesTotal  int64
	Percent     int
	Speed       string // as printed, e.g. "21.456 MiB/s"
	ETA         string // as printed, e.g. "1m7s"
	FilesDone   int64
	FilesTotal  int64
	ChecksDone  int64
	ChecksTotal int64
}

// Byte-count stats line:
//
//	Transferred:   	   1.217 GiB / 2.634 GiB, 46%, 21.456 MiB/s, ETA 1m7s
var bytesLineRe = regexp.MustCompile(`Transferred:\s+([\d.]+\s*[KMGTP]?i?B) / ([\d.]+\s*[KMGTP]?i?B), (\d+|-)%(?:, ([\d.]+\s*[KMGTP]?i?B/s))?(?:, ETA ([0-9a-z-]+))?`)

// File-count stats line:
//
//	Transferred:          203 / 541, 38%
var filesLineRe = regexp.MustCompile(`Transferred:\s+(\d+) / (\d+), (\d+|-)%`)

// Checks line:
//
//	Checks:              462 / 462, 100%
var checksLineRe = regexp.MustCompile(`Checks:\s+(\d+) / (\d+), (\d+|-)%`)

// StatsTracker folds rclone output lines into a running TransferStats.
type StatsTracker struct {
	stats TransferStats
}

// Stats returns the most recent figures.
func (t *StatsTracker) Stats() TransferStats {
	return t.stats
}

// Observe inspects one output line and returns true when it updated the
// stats. Non-stats lines (file actions, errors) return false.
func (t *StatsTracker) Observe(line string) bool {
	if !strings.Contains(line, "Transferred:") && !strings.Contains(line, "Checks:") {
		return false
	}

	if m := checksLineRe.FindStringSubmatch(line); m != nil {
		t.stats.ChecksDone, _ = strconv.ParseInt(m[1], 10, 64)
		t.stats.ChecksTotal, _ = strconv.ParseInt(m[2], 10, 64)
		return true
	}

	if m := bytesLineRe.FindStringSubmatch(line); m != nil {
		t.stats.BytesDone = parseSize(m[1])
		t.stats.BytesTotal = parseSize(m[2])
		if m[3] != "-" {
			t.stats.Percent, _ = strconv.Atoi(m[3])
		}
		if m[4] != "" {
			t.stats.Speed = strings.TrimSpace(m[4])
		}
		if m[5] != "" {
			t.stats.ETA = m[5]
		}
		return true
	}

	if m := filesLineRe.FindStringSubmatch(line); m != nil {
		t.stats.FilesDone, _ = strconv.ParseInt(m[1], 10, 64)
		t.stats.FilesTotal, _ = strconv.ParseInt(m[2], 10, 64)
		if m[3] != "-" {
			t.stats.Percent, _ = strconv.Atoi(m[3])
		}
		return true
	}

	return false
}

var sizeUnits = map[string]int64{
	"B":   1,
	"KiB": 1 << 10,
	"MiB": 1 << 20,
	"GiB": 1 << 30,
	"TiB": 1 << 40,
	"PiB": 1 << 50,
}

// parseSize converts rclone's human-readable sizes ("1.217 GiB") to bytes.
func parseSize(s string) int64 {
	s = strings.TrimSpace(s)

	idx := strings.IndexFunc(s, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.')
	})
	if idx < 0 {
		n, _ := strconv.ParseInt(s, 10, 64)
		return n
	}

	value, err := strconv.ParseFloat(s[:idx], 64)
	if err != nil {
		return 0
	}

	unit := strings.TrimSpace(s[idx:])
	mult, ok := sizeUnits[unit]
	if !ok {
		return 0
	}
	return int64(value * float64(mult))
}
