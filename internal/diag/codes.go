package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Attribute projection
	AttrInfo                  Code = 1000
	AttrMalformedBlob         Code = 1001
	AttrUnresolvedConstructor Code = 1002
	AttrArgumentCount         Code = 1003

	// Constant encoding
	ConstInfo          Code = 2000
	ConstTypeMismatch  Code = 2001
	ConstNoEnumFields  Code = 2002
	ConstUnboundedEnum Code = 2003

	// Signature decoding
	SigInfo          Code = 3000
	SigMalformedBlob Code = 3001
	SigUnknownToken  Code = 3002
	SigCountMismatch Code = 3003

	// Name shortening
	NameInfo        Code = 4000
	NameAmbiguous   Code = 4001
	NameUnresolved  Code = 4002
	NameQualified   Code = 4003
	NameAliasShadow Code = 4004
	NameRoundTrip   Code = 4005

	// Entity synthesis
	EntInfo            Code = 5000
	EntInvalidEntity   Code = 5001
	EntUnsupportedKind Code = 5002
	EntMissingAccessor Code = 5003
	EntMissingInvoke   Code = 5004

	// Configuration and snapshots
	CfgInfo           Code = 6000
	CfgUnknownAlias   Code = 6001
	CfgBadSnapshot    Code = 6002
	CfgUnknownOption  Code = 6003
	CfgUnknownSubject Code = 6004
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	AttrInfo:                  "Attribute information",
	AttrMalformedBlob:         "Attribute argument blob could not be decoded",
	AttrUnresolvedConstructor: "Attribute constructor could not be resolved",
	AttrArgumentCount:         "Attribute argument count does not match constructor",
	ConstInfo:                 "Constant information",
	ConstTypeMismatch:         "Constant value disagrees with its declared type",
	ConstNoEnumFields:         "Enum has no constant fields",
	ConstUnboundedEnum:        "Enum underlying type is not integral",
	SigInfo:                   "Signature information",
	SigMalformedBlob:          "Signature blob could not be decoded",
	SigUnknownToken:           "Signature refers to an unknown type token",
	SigCountMismatch:          "Signature parameter count disagrees with parameter records",
	NameInfo:                  "Name shortening information",
	NameAmbiguous:             "Short name is ambiguous in scope",
	NameUnresolved:            "Short name does not resolve in scope",
	NameQualified:             "Name was qualified to avoid a collision",
	NameAliasShadow:           "Alias is shadowed by an inner declaration",
	NameRoundTrip:             "Produced name resolves to a different type",
	EntInfo:                   "Entity information",
	EntInvalidEntity:          "Entity does not exist",
	EntUnsupportedKind:        "Entity kind cannot be declared",
	EntMissingAccessor:        "Member has no accessors",
	EntMissingInvoke:          "Delegate type has no Invoke method",
	CfgInfo:                   "Configuration information",
	CfgUnknownAlias:           "Alias target does not resolve",
	CfgBadSnapshot:            "Model snapshot is inconsistent",
	CfgUnknownOption:          "Unknown option in configuration",
	CfgUnknownSubject:         "Requested type or member does not exist",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("ATT%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("CST%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SIG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("NAM%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("ENT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
