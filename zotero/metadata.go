package zotero

import (
	"strconv"
	"strings"

	"github.com/poiesic/paperit/core"
)

// Item is a Zotero library item as returned by the API.
type Item struct {
	Key  string   `json:"key"`
	Data ItemData `json:"data"`
}

// ItemData is the data envelope of a Zotero item.
type ItemData struct {
	Key              string    `json:"key"`
	ItemType         string    `json:"itemType"`
	Title            string    `json:"title"`
	Creators         []Creator `json:"creators"`
	Date             string    `json:"date"`
	PublicationTitle string    `json:"publicationTitle"`
	DOI              string    `json:"DOI"`
	AbstractNote     string    `json:"abstractNote"`
	ContentType      string    `json:"contentType"`
	Filename         string    `json:"filename"`
	ParentItem       string    `json:"parentItem"`
	LinkMode         string    `json:"linkMode"`
}

// Creator is an author, editor, or other contributor on an item.
type Creator struct {
	CreatorType string `json:"creatorType"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Name        string `json:"name"`
}

// Collection is a Zotero collection node.
type Collection struct {
	Key  string         `json:"key"`
	Data CollectionData `json:"data"`
}

// CollectionData is the data envelope of a collection.
type CollectionData struct {
	Key              string `json:"key"`
	Name             string `json:"name"`
	ParentCollection string `json:"parentCollection"`
}

// IsPDFAttachment reports whether the item is a stored PDF attachment.
func (i Item) IsPDFAttachment() bool {
	return i.Data.ItemType == "attachment" && i.Data.ContentType == "application/pdf"
}

// ExtractMeta converts a Zotero item into the document metadata carried on
// every chunk. collectionPath is the slash-joined collection hierarchy the
// item was found under, e.g. "Projects/Trust Review".
func ExtractMeta(item Item, collectionPath string) core.DocumentMeta {
	return core.DocumentMeta{
		DocID:      item.Key,
		Title:      item.Data.Title,
		Authors:    formatAuthors(item.Data.Creators),
		Year:       parseYear(item.Data.Date),
		Journal:    item.Data.PublicationTitle,
		DOI:        item.Data.DOI,
		Collection: collectionPath,
	}
}

// formatAuthors joins author last names with "; ". Non-author creators
// (editors, translators) are skipped. Institutional creators use their
// single Name field.
func formatAuthors(creators []Creator) string {
	var names []string
	for _, c := range creators {
		if c.CreatorType != "" && c.CreatorType != "author" {
			continue
		}
		switch {
		case c.LastName != "":
			names = append(names, c.LastName)
		case c.Name != "":
			names = append(names, c.Name)
		}
	}
	return strings.Join(names, "; ")
}

// parseYear extracts a four-digit year from a Zotero date string. Zotero
// dates are freeform ("2021-03-15", "March 2021", "2021"), so the first
// four-digit run wins. Returns 0 when no year is present.
func parseYear(date string) int {
	runStart := -1
	for i := 0; i <= len(date); i++ {
		if i < len(date) && date[i] >= '0' && date[i] <= '9' {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 && i-runStart == 4 {
			year, err := strconv.Atoi(date[runStart:i])
			if err == nil && core.IsValidYear(year) && year != 0 {
				return year
			}
		}
		runStart = -1
	}
	return 0
}
