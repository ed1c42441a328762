// Package cas models the common analysis structure (CAS) the NLP services
// exchange: per-view subject-of-analysis text plus typed, offset-addressed
// annotations.  Offsets are character (rune) positions into the view text.
package cas

// View identifiers.  The HTML-to-text service writes its plain-text rendering
// into the html2text view; downstream stages annotate that view.
const (
	ViewInitial   = "_InitialView"
	ViewHTML2Text = "html2textView"
	ViewText2HTML = "text2htmlView"
)

// Annotation type names, following the DKPro/UIMA vocabulary the NLP
// services emit.
const (
	TypeSentence        = "de.tudarmstadt.ukp.dkpro.core.api.segmentation.type.Sentence"
	TypeParagraph       = "de.tudarmstadt.ukp.dkpro.core.api.segmentation.type.Paragraph"
	TypeLemma           = "de.tudarmstadt.ukp.dkpro.core.api.segmentation.type.Lemma"
	TypeTfidf           = "de.tudarmstadt.ukp.dkpro.core.api.frequency.tfidf.type.Tfidf"
	TypeToken           = "cassis.Token"
	TypeDependency      = "de.tudarmstadt.ukp.dkpro.core.api.syntax.type.dependency.Dependency"
	TypeValueBetweenTag = "com.crosslang.uimahtmltotext.uima.type.ValueBetweenTagType"
)

// User-correction annotation types.  These carry manually created or rejected
// spans back into the CAS so re-extraction can honour them.
const (
	TypeSentenceUser  = TypeSentence + "_user"
	TypeTokenUser     = TypeToken + "_user"
	TypeTfidfUser     = TypeTfidf + "_user"
	TypeTokenRejected = TypeToken + "_user_rejected"
	TypeTfidfRejected = TypeTfidf + "_user_rejected"
)

// Feature keys used by the annotation types above.
const (
	FeatTagName    = "tagName"
	FeatAttributes = "attributes"
	FeatLemmaValue = "value"
	FeatTfidfValue = "tfidfValue"
	FeatTerm       = "term"
	FeatUser       = "user"
	FeatRole       = "role"
	FeatDatetime   = "datetime"
)

//Personal.AI order the ending
