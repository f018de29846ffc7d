// Package packager turns a CEP extension folder into an installable ZXP bundle.
//
// It loads the optional settings file, configures logging, builds the archive
// and reports every added entry on the output writer, finishing with the path
// of the created package.
package packager
