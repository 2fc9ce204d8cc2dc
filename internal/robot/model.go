package robot

import (
	"fmt"
)

// Model owns the links and joints of one robot.
type Model struct {
	Name string

	links     []*Link
	joints    []*Joint
	linkIndex map[string]LinkID
	jointIdx  map[string]JointID
	root      LinkID
}

func NewModel(name string) *Model {
	return &Model{
		Name:      name,
		linkIndex: make(map[string]LinkID),
		jointIdx:  make(map[string]JointID),
		root:      NoLink,
	}
}

// AddLink takes ownership of l and assigns its ID. The first link added
// becomes the root.
func (m *Model) AddLink(l *Link) (LinkID, error) {
	if l == nil {
		return NoLink, &Error{Kind: ErrInvalidInput, Model: m.Name}
	}
	if _, dup := m.linkIndex[l.Name]; dup {
		return NoLink, fmt.Errorf("duplicate link name: %w", &Error{Kind: ErrInvalidInput, Model: m.Name, Link: l.Name})
	}
	id := LinkID(len(m.links))
	l.ID = id
	l.Model = m.Name
	m.links = append(m.links, l)
	m.linkIndex[l.Name] = id
	if m.root == NoLink {
		m.root = id
	}
	return id, nil
}

// AddJoint takes ownership of j and assigns its ID.
func (m *Model) AddJoint(j *Joint) (JointID, error) {
	if j == nil {
		return NoJoint, &Error{Kind: ErrInvalidInput, Model: m.Name}
	}
	if _, dup := m.jointIdx[j.Name]; dup {
		return NoJoint, fmt.Errorf("duplicate joint name: %w", &Error{Kind: ErrInvalidInput, Model: m.Name, Joint: j.Name})
	}
	id := JointID(len(m.joints))
	j.ID = id
	m.joints = append(m.joints, j)
	m.jointIdx[j.Name] = id
	return id, nil
}

func (m *Model) Link(name string) (*Link, bool) {
	id, ok := m.linkIndex[name]
	if !ok {
		return nil, false
	}
	return m.links[id], true
}

func (m *Model) LinkAt(id LinkID) (*Link, bool) {
	if id < 0 || int(id) >= len(m.links) {
		return nil, false
	}
	return m.links[id], true
}

func (m *Model) Joint(name string) (*Joint, bool) {
	id, ok := m.jointIdx[name]
	if !ok {
		return nil, false
	}
	return m.joints[id], true
}

func (m *Model) JointAt(id JointID) (*Joint, bool) {
	if id < 0 || int(id) >= len(m.joints) {
		return nil, false
	}
	return m.joints[id], true
}

// ChildLink returns the link the joint actuates.
func (m *Model) ChildLink(j *Joint) (*Link, bool) {
	if j == nil {
		return nil, false
	}
	return m.LinkAt(j.Child)
}

func (m *Model) Root() (*Link, bool) {
	return m.LinkAt(m.root)
}

// Links returns the links in insertion order. The slice is shared.
func (m *Model) Links() []*Link { return m.links }

// Joints returns the joints in insertion order. The slice is shared.
func (m *Model) Joints() []*Joint { return m.joints }

func (m *Model) JointNames() []string {
	names := make([]string, len(m.joints))
	for i, j := range m.joints {
		names[i] = j.Name
	}
	return names
}

func (m *Model) NumLinks() int  { return len(m.links) }
func (m *Model) NumJoints() int { return len(m.joints) }
