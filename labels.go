package ubasic

import (
	"strings"

	"github.com/danswartzendruber/avl"

	"ubasic/tokenizer"
)

//
// Labels are resolved through an AVL tree of name => offset, filled
// once when a program is loaded.  The offset is that of the token
// right after the label, which is where a rescan of the program for
// ':name' would leave the token stream.  The first definition of a
// name wins, as it would for a scan from the top
//

type labelNode struct {
	avl    avl.AvlNode
	name   string
	offset int
}

type labelTable struct {
	root *avl.AvlNode
	n    int
}

func newLabelTable() *labelTable {

	return &labelTable{}
}

func cmpLabelKey(key any, node any) int {

	return strings.Compare(key.(string), node.(*labelNode).name)
}

func cmpLabelNode(node1, node2 any) int {

	return strings.Compare(node1.(*labelNode).name, node2.(*labelNode).name)
}

//
// Returns false if name is already present; the old offset is kept
//

func (lt *labelTable) insert(name string, offset int) bool {

	node := &labelNode{name: name, offset: offset}

	if avl.AvlTreeInsert(&lt.root, &node.avl, node, cmpLabelNode) != nil {
		return false
	}

	lt.n++

	return true
}

func (lt *labelTable) lookup(name string) (int, bool) {

	p := avl.AvlTreeLookup(lt.root, name, cmpLabelKey)
	if p == nil {
		return 0, false
	}

	return p.(*labelNode).offset, true
}

func (lt *labelTable) len() int {

	return lt.n
}

//
// Walk the whole token stream once, recording every ':' LABEL pair.
// Leaves the stream back at the start of the program
//

func buildLabelTable(ts TokenStream) *labelTable {

	lt := newLabelTable()

	for !ts.Finished() {
		if ts.Token() != tokenizer.COLON {
			ts.Next()
			continue
		}

		ts.Next()
		if ts.Token() != tokenizer.LABEL {
			continue
		}

		name := ts.Label()
		ts.Next()
		lt.insert(name, ts.SaveOffset())
	}

	ts.JumpOffset(0)

	return lt
}
