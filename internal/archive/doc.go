// Package archive builds ZXP bundles: deflate-compressed ZIP archives holding
// every regular file of an extension folder.
//
// Entry names are computed relative to the parent of the folder, so the
// folder's own name is the first segment of every entry and unpacking the
// bundle recreates the folder instead of spilling its contents. The archive is
// written to a temporary file beside the destination and renamed into place
// only after it has been finalized.
package archive
