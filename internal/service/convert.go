package service

import (
	"github.com/mmynk/birthdays/internal/models"
	"github.com/mmynk/birthdays/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Mobile:    u.Mobile,
		DOB:       u.DOB.String(),
		GroupIDs:  u.GroupIDs,
		CreatedAt: u.CreatedAt,
	}
}

func toAPIContact(c *models.PrivateUser) *api.Contact {
	return &api.Contact{
		ID:        c.ID,
		Name:      c.Name,
		Mobile:    c.Mobile,
		DOB:       c.DOB.String(),
		CreatedAt: c.CreatedAt,
	}
}

// toAPIGroup converts g. profiles, when given, fill in member names; it must
// be in member order as returned by GroupDetails.
func toAPIGroup(g *models.Group, profiles []*models.User) *api.Group {
	byID := make(map[string]*models.User, len(profiles))
	for _, u := range profiles {
		byID[u.ID] = u
	}

	members := make([]*api.Member, len(g.Members))
	for i, m := range g.Members {
		member := &api.Member{
			UserID:   m.UserID,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
		if u, ok := byID[m.UserID]; ok {
			member.Name = u.Name
			member.Mobile = u.Mobile
			member.DOB = u.DOB.String()
		}
		members[i] = member
	}

	return &api.Group{
		ID:         g.ID,
		Name:       g.Name,
		CreatedBy:  g.CreatedBy,
		InviteCode: g.InviteCode,
		Members:    members,
		CreatedAt:  g.CreatedAt,
	}
}

func toAPIPrivateGroup(g *models.PrivateGroup, contacts []*models.PrivateUser) *api.PrivateGroup {
	out := &api.PrivateGroup{
		ID:        g.ID,
		Name:      g.Name,
		MemberIDs: append([]string{}, g.Members...),
		CreatedAt: g.CreatedAt,
	}
	for _, c := range contacts {
		out.Members = append(out.Members, toAPIContact(c))
	}
	return out
}

func toAPIBirthdays(list *models.BirthdayList) []*api.Birthday {
	out := make([]*api.Birthday, len(list.Birthdays))
	for i, b := range list.Birthdays {
		out[i] = &api.Birthday{
			ID:     b.ID,
			Name:   b.Name,
			Mobile: b.Mobile,
			DOB:    b.DOB.String(),
			Source: string(b.Source),
		}
	}
	return out
}
