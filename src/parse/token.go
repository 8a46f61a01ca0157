package parse

import (
	"fmt"
)

type (
	// LineInfo is a position in a script.
	LineInfo struct {
		Line   int64
		Column int64
	}
	tokenType string
	token     struct {
		LineInfo
		Kind      tokenType
		StringVal string
	}
)

const (
	tokenColon        tokenType = ":"
	tokenComma        tokenType = ","
	tokenPeriod       tokenType = "."
	tokenSemiColon    tokenType = ";"
	tokenOpenParen    tokenType = "("
	tokenCloseParen   tokenType = ")"
	tokenOpenCurly    tokenType = "{"
	tokenCloseCurly   tokenType = "}"
	tokenOpenBracket  tokenType = "["
	tokenCloseBracket tokenType = "]"
	tokenUnion        tokenType = "|"
	tokenIntersection tokenType = "&"
	tokenEphemeral    tokenType = "^"
	tokenPartial      tokenType = "?"
	tokenSubtype      tokenType = "<:"
	tokenNotSubtype   tokenType = "!<:"
	tokenEq           tokenType = "=="
	tokenNe           tokenType = "!="
	tokenPackage      tokenType = "package"
	tokenClass        tokenType = "class"
	tokenTrait        tokenType = "trait"
	tokenInterface    tokenType = "interface"
	tokenPrimitive    tokenType = "primitive"
	tokenActor        tokenType = "actor"
	tokenIs           tokenType = "is"
	tokenFun          tokenType = "fun"
	tokenAssert       tokenType = "assert"
	tokenIso          tokenType = "iso"
	tokenTrn          tokenType = "trn"
	tokenRef          tokenType = "ref"
	tokenVal          tokenType = "val"
	tokenBox          tokenType = "box"
	tokenTag          tokenType = "tag"
	tokenIdentifier   tokenType = "identifier"
	tokenComment      tokenType = "comment"
	tokenEOS          tokenType = "<EOS>"
)

var keywords = map[string]tokenType{
	string(tokenPackage):   tokenPackage,
	string(tokenClass):     tokenClass,
	string(tokenTrait):     tokenTrait,
	string(tokenInterface): tokenInterface,
	string(tokenPrimitive): tokenPrimitive,
	string(tokenActor):     tokenActor,
	string(tokenIs):        tokenIs,
	string(tokenFun):       tokenFun,
	string(tokenAssert):    tokenAssert,
	string(tokenIso):       tokenIso,
	string(tokenTrn):       tokenTrn,
	string(tokenRef):       tokenRef,
	string(tokenVal):       tokenVal,
	string(tokenBox):       tokenBox,
	string(tokenTag):       tokenTag,
}

func (tk *token) String() string {
	switch tk.Kind {
	case tokenIdentifier:
		return fmt.Sprintf("<%v>", tk.StringVal)
	case tokenComment:
		return fmt.Sprintf("-- %v", tk.StringVal)
	default:
		return string(tk.Kind)
	}
}

func (tk *token) isDeclKind() bool {
	switch tk.Kind {
	case tokenClass, tokenTrait, tokenInterface, tokenPrimitive, tokenActor:
		return true
	default:
		return false
	}
}

func (tk *token) isCap() bool {
	switch tk.Kind {
	case tokenIso, tokenTrn, tokenRef, tokenVal, tokenBox, tokenTag:
		return true
	default:
		return false
	}
}

func (tk *token) isRelation() bool {
	switch tk.Kind {
	case tokenSubtype, tokenNotSubtype, tokenEq, tokenNe:
		return true
	default:
		return false
	}
}
