package platform

import "os"

// Toolchain names the programs that compile, link and archive.
type Toolchain struct {
	CC  string // C compiler driver
	CXX string // C++ compiler driver, also used to link
	AR  string // static archiver
}

// DefaultToolchain returns the GNU toolchain, honouring the CC, CXX and AR
// environment variables.
func DefaultToolchain() Toolchain {
	return Toolchain{
		CC:  getenv("CC", "gcc"),
		CXX: getenv("CXX", "g++"),
		AR:  getenv("AR", "ar"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
