package errors

import (
	"fmt"

	"github.com/conduit-lang/propkit/internal/compiler/ast"
)

// Domain is the diagnostic domain of every propkit code
const Domain = "propkit"

var (
	// CodeMissingContainerID indicates a container annotation that is absent or unparseable
	CodeMissingContainerID = Code{Domain, "missing_container_id"}
	// CodeDuplicateMemberID indicates a member id already used by an earlier member
	CodeDuplicateMemberID = Code{Domain, "duplicate_member_id"}
	// CodeDuplicateMemberIDOrigin points at the first use of a duplicated id
	CodeDuplicateMemberIDOrigin = Code{Domain, "duplicate_member_id_origin"}
	// CodeMalformedMemberAnnotation indicates a member annotation that is not one expression
	CodeMalformedMemberAnnotation = Code{Domain, "malformed_member_annotation"}
	// CodeInvalidAccessor indicates an annotated method that is not a getter
	CodeInvalidAccessor = Code{Domain, "invalid_accessor"}
	// CodeRedundantMemberAnnotation indicates a second annotation on one member
	CodeRedundantMemberAnnotation = Code{Domain, "redundant_member_annotation"}
	// CodeUnsupportedDeclaration indicates a container annotation on a non-struct or generic type
	CodeUnsupportedDeclaration = Code{Domain, "unsupported_declaration"}
)

// Codes returns every diagnostic code in a stable order
func Codes() []Code {
	return []Code{
		CodeMissingContainerID,
		CodeDuplicateMemberID,
		CodeDuplicateMemberIDOrigin,
		CodeMalformedMemberAnnotation,
		CodeInvalidAccessor,
		CodeRedundantMemberAnnotation,
		CodeUnsupportedDeclaration,
	}
}

// NewMissingContainerID creates the error raised when a type has no usable container id.
// node is the container annotation when present, otherwise the type declaration.
func NewMissingContainerID(node ast.Node, typeName, reason string) *Diagnostic {
	msg := fmt.Sprintf("type '%s' has no container id", typeName)
	if reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, reason)
	}
	return newDiagnostic(SeverityError, CodeMissingContainerID, node, msg)
}

// NewDuplicateMemberID creates the error attached to the repeated annotation
func NewDuplicateMemberID(node ast.Node, key, member, first string) *Diagnostic {
	return newDiagnostic(SeverityError, CodeDuplicateMemberID, node,
		fmt.Sprintf("property id '%s' on '%s' is already used by '%s'", key, member, first))
}

// NewSharedMemberAnnotation creates the duplicate id error for a field list
// under one annotation. node is the repeated member.
func NewSharedMemberAnnotation(node ast.Node, key, member, first string) *Diagnostic {
	return newDiagnostic(SeverityError, CodeDuplicateMemberID, node,
		fmt.Sprintf("property id '%s' on '%s' is already used by '%s'; one annotation covers both fields, declare them separately", key, member, first))
}

// NewDuplicateMemberIDOrigin creates the note attached to the first use of an id
func NewDuplicateMemberIDOrigin(node ast.Node, key, member string) *Diagnostic {
	return newDiagnostic(SeverityNote, CodeDuplicateMemberIDOrigin, node,
		fmt.Sprintf("property id '%s' first used by '%s' here", key, member))
}

// NewMalformedMemberAnnotation creates the note for an unparseable member annotation
func NewMalformedMemberAnnotation(node ast.Node, member, reason string) *Diagnostic {
	return newDiagnostic(SeverityNote, CodeMalformedMemberAnnotation, node,
		fmt.Sprintf("property annotation on '%s' is not a single expression (%s); member ignored", member, reason))
}

// NewInvalidAccessor creates the note for an annotated method with a non-getter shape
func NewInvalidAccessor(node ast.Node, method string) *Diagnostic {
	return newDiagnostic(SeverityNote, CodeInvalidAccessor, node,
		fmt.Sprintf("method '%s' must take no parameters and return exactly one value to be a property; member ignored", method))
}

// NewRedundantMemberAnnotation creates the note for a second annotation on a member
func NewRedundantMemberAnnotation(node ast.Node, member string) *Diagnostic {
	return newDiagnostic(SeverityNote, CodeRedundantMemberAnnotation, node,
		fmt.Sprintf("'%s' already has a property annotation; this one is ignored", member))
}

// NewUnsupportedDeclaration creates the error for a container on an unsupported type
func NewUnsupportedDeclaration(node ast.Node, typeName, reason string) *Diagnostic {
	return newDiagnostic(SeverityError, CodeUnsupportedDeclaration, node,
		fmt.Sprintf("type '%s' cannot be a property container: %s", typeName, reason))
}
