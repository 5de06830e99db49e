// Package meta derives Java release information from class-file headers.
package meta

import "strconv"

// firstModernMajor is the major version of Java 5. Earlier releases were
// numbered 1.x.
const firstModernMajor = 49

// Release returns the Java release that emits class files with the given
// major version, e.g. "8" for 52 or "1.4" for 48. It returns "" for
// versions older than JDK 1.1.
func Release(major uint16) string {
	switch {
	case major < 45:
		return ""
	case major < firstModernMajor:
		return "1." + strconv.Itoa(int(major)-44)
	default:
		return strconv.Itoa(int(major) - 44)
	}
}

// Info summarizes the class-file versions seen in an archive.
type Info struct {
	Classes  int
	MinMajor uint16
	MaxMajor uint16
}

// Observe records one class file.
func (i *Info) Observe(major uint16) {
	if i.Classes == 0 || major < i.MinMajor {
		i.MinMajor = major
	}
	if major > i.MaxMajor {
		i.MaxMajor = major
	}
	i.Classes++
}

// JDK is the oldest release able to load every observed class, or "" when
// nothing was observed.
func (i Info) JDK() string {
	if i.Classes == 0 {
		return ""
	}
	return Release(i.MaxMajor)
}
