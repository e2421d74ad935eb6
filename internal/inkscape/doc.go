// Package inkscape wraps the external Inkscape + Ink/Stitch toolchain used
// for stitch format conversion.
//
// The gateway probes for the application and the extension once per
// session. Conversions are subprocess invocations judged solely by exit
// status and the existence of the expected output file; nothing about the
// tool's stdout format is relied upon.
package inkscape
