// Package codemeta holds IRI constants for the CodeMeta vocabulary, the
// default vocabulary for research-software metadata documents.
package codemeta

// Namespace is the base IRI prefix for CodeMeta-specific terms.
const Namespace = "https://codemeta.github.io/terms/"

// ContextURL is the canonical identifier of the published CodeMeta context.
const ContextURL = "https://doi.org/10.5063/schema/codemeta-2.0"

// Property IRIs defined by CodeMeta itself (not inherited from schema.org).
const (
	// PropIssueTracker links the software to its issue tracker.
	PropIssueTracker = Namespace + "issueTracker"

	// PropReadme links the software to its README document.
	PropReadme = Namespace + "readme"

	// PropBuildInstructions links to build documentation.
	PropBuildInstructions = Namespace + "buildInstructions"

	// PropReferencePublication links to the paper describing the software.
	PropReferencePublication = Namespace + "referencePublication"

	// PropDevelopmentStatus is the repostatus.org development status.
	PropDevelopmentStatus = Namespace + "developmentStatus"

	// PropFunding is the funding statement for the software.
	PropFunding = Namespace + "funding"

	// PropMaintenanceStatus is the maintenance status of the software.
	PropMaintenanceStatus = Namespace + "maintenanceStatus"

	// PropSoftwareSuggestions lists optional dependencies.
	PropSoftwareSuggestions = Namespace + "softwareSuggestions"
)
