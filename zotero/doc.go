// Package zotero provides a minimal client for the Zotero web API: listing
// collections and items, downloading PDF attachments, and converting item
// metadata into the document records used throughout the library.
package zotero
