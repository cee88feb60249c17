// Package api holds the request and response messages of the birthdays RPC
// services. Messages travel as JSON; dates are strings in YYYY-MM-DD or
// --MM-DD form and timestamps are Unix seconds.
package api

type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Mobile    string   `json:"mobile"`
	DOB       string   `json:"dob,omitempty"`
	GroupIDs  []string `json:"group_ids,omitempty"`
	CreatedAt int64    `json:"created_at"`
}

// Member is one entry of a public group's member list. Name, Mobile and DOB
// are only filled by GetGroup.
type Member struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joined_at"`
	Name     string `json:"name,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
	DOB      string `json:"dob,omitempty"`
}

type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedBy  string    `json:"created_by"`
	InviteCode string    `json:"invite_code"`
	Members    []*Member `json:"members"`
	CreatedAt  int64     `json:"created_at"`
}

type Contact struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile,omitempty"`
	DOB       string `json:"dob,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// PrivateGroup lists contact IDs in MemberIDs; Members is only filled by GetPrivateGroup.
type PrivateGroup struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	MemberIDs []string   `json:"member_ids"`
	Members   []*Contact `json:"members,omitempty"`
	CreatedAt int64      `json:"created_at"`
}

type Birthday struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile,omitempty"`
	DOB    string `json:"dob"`
	Source string `json:"source"`
}

// Auth

type SignupRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	DOB    string `json:"dob"`
}

type SignupResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Mobile string `json:"mobile"`
	DOB    string `json:"dob"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Identity

type GetProfileRequest struct{}

type GetProfileResponse struct {
	User *User `json:"user"`
}

// UpdateProfileRequest changes the caller's profile. Empty fields are left as they are.
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty"`
	Mobile string `json:"mobile,omitempty"`
	DOB    string `json:"dob,omitempty"`
}

type UpdateProfileResponse struct {
	User *User `json:"user"`
}

type AddContactRequest struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
	DOB    string `json:"dob,omitempty"`
}

type AddContactResponse struct {
	Contact *Contact `json:"contact"`
}

type FindContactRequest struct {
	Mobile string `json:"mobile"`
}

type FindContactResponse struct {
	Contact *Contact `json:"contact"`
}

type UpdateContactRequest struct {
	ContactID string `json:"contact_id"`
	Name      string `json:"name,omitempty"`
	Mobile    string `json:"mobile,omitempty"`
	DOB       string `json:"dob,omitempty"`
}

type UpdateContactResponse struct {
	Contact *Contact `json:"contact"`
}

type DeleteContactRequest struct {
	ContactID string `json:"contact_id"`
}

type DeleteContactResponse struct{}

type ListContactsRequest struct{}

type ListContactsResponse struct {
	Contacts []*Contact `json:"contacts"`
}

// Groups

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

type JoinGroupResponse struct {
	Group *Group `json:"group"`
}

type AddMemberRequest struct {
	GroupID string `json:"group_id"`
	Mobile  string `json:"mobile"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type LeaveGroupRequest struct {
	GroupID string `json:"group_id"`
}

type LeaveGroupResponse struct {
	GroupDeleted bool `json:"group_deleted"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

// RepairMembershipsRequest rebuilds the caller's group_ids from group member lists.
type RepairMembershipsRequest struct{}

type RepairMembershipsResponse struct {
	User *User `json:"user"`
}

// Private groups

type CreatePrivateGroupRequest struct {
	Name string `json:"name"`
}

type CreatePrivateGroupResponse struct {
	Group *PrivateGroup `json:"group"`
}

type AddPrivateMemberRequest struct {
	GroupID   string `json:"group_id"`
	ContactID string `json:"contact_id"`
}

type AddPrivateMemberResponse struct {
	Group *PrivateGroup `json:"group"`
}

type RemovePrivateMemberRequest struct {
	GroupID   string `json:"group_id"`
	ContactID string `json:"contact_id"`
}

type RemovePrivateMemberResponse struct {
	Group *PrivateGroup `json:"group"`
}

type GetPrivateGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetPrivateGroupResponse struct {
	Group *PrivateGroup `json:"group"`
}

type ListPrivateGroupsRequest struct{}

type ListPrivateGroupsResponse struct {
	Groups []*PrivateGroup `json:"groups"`
}

// Birthdays

type TodaysBirthdaysRequest struct{}

// BirthdaysOnRequest asks for a specific calendar day. Month is 1-12.
type BirthdaysOnRequest struct {
	Month int32 `json:"month"`
	Day   int32 `json:"day"`
}

type BirthdaysResponse struct {
	Month     int32       `json:"month"`
	Day       int32       `json:"day"`
	Count     int32       `json:"count"`
	Birthdays []*Birthday `json:"birthdays"`
}
