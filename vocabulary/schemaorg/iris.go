// Package schemaorg holds IRI constants for the schema.org terms used
// throughout software metadata documents.
package schemaorg

// Namespace is the base IRI prefix for schema.org terms.
const Namespace = "http://schema.org/"

// Class IRIs.
const (
	ClassPerson             = Namespace + "Person"
	ClassOrganization       = Namespace + "Organization"
	ClassSoftwareSourceCode = Namespace + "SoftwareSourceCode"
)

// Property IRIs.
const (
	PropName           = Namespace + "name"
	PropVersion        = Namespace + "version"
	PropDescription    = Namespace + "description"
	PropAuthor         = Namespace + "author"
	PropContributor    = Namespace + "contributor"
	PropEmail          = Namespace + "email"
	PropGivenName      = Namespace + "givenName"
	PropFamilyName     = Namespace + "familyName"
	PropIdentifier     = Namespace + "identifier"
	PropKeywords       = Namespace + "keywords"
	PropLicense        = Namespace + "license"
	PropURL            = Namespace + "url"
	PropCodeRepository = Namespace + "codeRepository"
	PropDateCreated    = Namespace + "dateCreated"
	PropDateModified   = Namespace + "dateModified"
	PropDatePublished  = Namespace + "datePublished"
)

// Datatype IRIs used for literal coercion.
const (
	TypeDate     = Namespace + "Date"
	TypeDateTime = Namespace + "DateTime"
	TypeTime     = Namespace + "Time"
	TypeText     = Namespace + "Text"
	TypeNumber   = Namespace + "Number"
	TypeBoolean  = Namespace + "Boolean"
)
