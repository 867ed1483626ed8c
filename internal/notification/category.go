package notification

import "fmt"

// Category is the reason a recipient is notified; it decides how the notification is framed.
type Category string

const (
	CommentToPersonalPost   Category = "comment_to_personal_post"
	CommentToCommentedPost  Category = "comment_to_commented_post"
	CommentToGroupStream    Category = "comment_to_group_stream"
	CommentToSavedPost      Category = "comment_to_saved_post"
	LikeActivity            Category = "like_activity"
	FollowPerson            Category = "follow_person"
	FollowGroup             Category = "follow_group"
	FlagActivity            Category = "flag_activity"
	PostToPersonalStream    Category = "post_to_personal_stream"
	PostToFollowedStream    Category = "post_to_followed_stream"
	PostToJoinedGroup       Category = "post_to_joined_group"
	RequestGroupAccess      Category = "request_group_access"
	GroupMembershipApproved Category = "group_membership_approved"
	GroupMembershipDenied   Category = "group_membership_denied"
	RequestNewGroup         Category = "request_new_group"
	RequestNewGroupApproved Category = "request_new_group_approved"
	RequestNewGroupDenied   Category = "request_new_group_denied"
	PassThrough             Category = "pass_through"
)

var categories = map[Category]struct{}{
	CommentToPersonalPost:   {},
	CommentToCommentedPost:  {},
	CommentToGroupStream:    {},
	CommentToSavedPost:      {},
	LikeActivity:            {},
	FollowPerson:            {},
	FollowGroup:             {},
	FlagActivity:            {},
	PostToPersonalStream:    {},
	PostToFollowedStream:    {},
	PostToJoinedGroup:       {},
	RequestGroupAccess:      {},
	GroupMembershipApproved: {},
	GroupMembershipDenied:   {},
	RequestNewGroup:         {},
	RequestNewGroupApproved: {},
	RequestNewGroupDenied:   {},
	PassThrough:             {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

func (c Category) String() string { return string(c) }

// ParseCategory returns the category with the given wire name.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown notification category %q", s)
	}
	return c, nil
}
