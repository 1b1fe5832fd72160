package layout

// ParentDataModifier is attached to a child to hand data to whichever
// container measures it. The container reads the folded value through
// IntrinsicMeasurable.ParentData.
type ParentDataModifier interface {
	ModifyParentData(parentData any) any
}

// FoldParentData folds a child's modifier chain into its parent data.
// Modifiers are applied innermost first, so the first modifier in the
// chain has the final say.
func FoldParentData(mods []ParentDataModifier) any {
	var data any
	for i := len(mods) - 1; i >= 0; i-- {
		if mods[i] != nil {
			data = mods[i].ModifyParentData(data)
		}
	}
	return data
}

// ColumnChildData is the alignment a Column child declares for itself.
type ColumnChildData struct {
	Alignment HorizontalAlignment
}

func (d ColumnChildData) ModifyParentData(any) any { return &d }

// RowChildData is the alignment a Row child declares for itself.
// Both axes are always carried; see RowScope.
type RowChildData struct {
	Vertical   VerticalAlignment
	Horizontal HorizontalAlignment
}

func (d RowChildData) ModifyParentData(any) any { return &d }

// ColumnScope is the receiver children of a Column use to tag themselves.
type ColumnScope struct{}

// Align overrides the Column's horizontal alignment for one child.
func (ColumnScope) Align(alignment HorizontalAlignment) ParentDataModifier {
	return ColumnChildData{Alignment: alignment}
}

// RowScope is the receiver children of a Row use to tag themselves.
type RowScope struct{}

// Align overrides both of the Row's alignments for one child.
func (RowScope) Align(vertical VerticalAlignment, horizontal HorizontalAlignment) ParentDataModifier {
	return RowChildData{Vertical: vertical, Horizontal: horizontal}
}

// AlignVertical overrides the vertical alignment only. The tag still carries
// a horizontal value, Start, which replaces the Row's default for this child.
func (s RowScope) AlignVertical(vertical VerticalAlignment) ParentDataModifier {
	return s.Align(vertical, Start)
}

func columnChildData(m IntrinsicMeasurable) *ColumnChildData {
	d, _ := m.ParentData().(*ColumnChildData)
	return d
}

func rowChildData(m IntrinsicMeasurable) *RowChildData {
	d, _ := m.ParentData().(*RowChildData)
	return d
}
