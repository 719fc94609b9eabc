package utils

import "regexp"

const DefaultBufferSize = 1024 * 1024 * 8 // 8MB buffer
const LogFile = ".nxsplit.log"

// MaxParts bounds a single job's plan; more parts means the chunk size is a typo
const MaxParts = 100_000

// Extensions homebrew installers accept as split dumps
var SupportedExtensions = []string{".nsp", ".nsz", ".xci"}

var PartIDRegex = regexp.MustCompile(`^\.(\d{2,})$`)
