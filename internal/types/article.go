package types

// PlaceholderTitle marks a candidate whose title has not yet been resolved
// from its detail page. Records carrying it are never emitted.
const PlaceholderTitle = "待解析标题"

// SourceTypeCommentary tags derivative media coverage, as opposed to
// primary papers.
const SourceTypeCommentary = "commentary"

// Candidate is a discovered URL not yet confirmed as a valid article.
// Candidates are ephemeral and live only within one pipeline run.
type Candidate struct {
	// Title is the anchor text the link was discovered with, or
	// PlaceholderTitle when the anchor text was unusable.
	Title string

	// URL is the absolute, fragment-stripped form produced by the
	// normalizer.
	URL string
}

// Article is a single extracted news record. It is immutable after
// creation.
type Article struct {
	Title    string `json:"title"     bson:"title"`
	URL      string `json:"url"       bson:"url"`
	Abstract string `json:"abstract"  bson:"abstract"`

	// Source identifies the originating site (e.g. "qbitai").
	Source string `json:"source" bson:"source"`

	// SourceType is always SourceTypeCommentary for this pipeline.
	SourceType string `json:"source_type" bson:"source_type"`

	// IsSecondary is always true: these are derivative media pieces,
	// not primary papers.
	IsSecondary bool `json:"is_secondary" bson:"is_secondary"`

	// PaperRefConfidence is a fixed low confidence that the piece
	// references a specific paper.
	PaperRefConfidence float64 `json:"paper_ref_confidence" bson:"paper_ref_confidence"`

	// PubDate is the publish date in YYYY-MM-DD form, or empty when no
	// date could be extracted.
	PubDate string `json:"pub_date" bson:"pub_date"`
}

// NewArticle builds an Article with the fixed commentary defaults applied.
func NewArticle(source, title, url, abstract, pubDate string) Article {
	return Article{
		Title:              title,
		URL:                url,
		Abstract:           abstract,
		Source:             source,
		SourceType:         SourceTypeCommentary,
		IsSecondary:        true,
		PaperRefConfidence: 0.35,
		PubDate:            pubDate,
	}
}
