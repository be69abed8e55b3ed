package videoservice

import (
	videodomain "github.com/Black-And-White-Club/reelboard/app/modules/video/domain"
	videodb "github.com/Black-And-White-Club/reelboard/app/modules/video/infrastructure/repositories"
)

func toDomain(v *videodb.Video) videodomain.Video {
	out := videodomain.Video{
		ID:           v.ID,
		UserID:       v.UserID,
		Title:        v.Title,
		Description:  v.Description,
		VideoURL:     v.VideoURL,
		ThumbnailURL: v.ThumbnailURL,
		Likes:        v.Likes,
		Views:        v.Views,
		LikedBy:      make([]string, 0, len(v.Likers)),
		CreatedAt:    v.CreatedAt,
	}
	for _, l := range v.Likers {
		out.LikedBy = append(out.LikedBy, l.UserID)
	}
	if v.User != nil {
		out.User = videodomain.Author{Username: v.User.Username, AvatarURL: v.User.AvatarURL}
	}
	return out
}
