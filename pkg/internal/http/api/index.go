package api

import (
	"git.solsynth.dev/hypernet/socialgraph/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

type controller struct {
	core *services.Core
}

func MapControllers(app *fiber.App, core *services.Core, baseURL string) {
	v := &controller{core: core}

	users := newResourceController(core.Users, "userId")
	users.present = hidePassword
	posts := newResourceController(core.Posts, "postId")
	posts.index = v.listGlobalFeed
	comments := newResourceController(core.Comments, "commentId")
	reactions := newResourceController(core.Reactions, "reactionId")
	follows := newResourceController(core.Follows, "followId")
	messages := newResourceController(core.Messages, "messageId")
	notifications := newResourceController(core.Notifications, "notificationId")

	api := app.Group(baseURL)
	{
		userRoute := api.Group("/users")
		{
			userRoute.Post("/login", v.authenticate)
			users.mount(userRoute)
		}

		postRoute := api.Group("/posts")
		{
			postRoute.Get("/featured", v.listFeaturedPosts)
			postRoute.Get("/feed/:userId", v.listFollowedFeed)
			postRoute.Get("/user/:userId", v.listPostsBy)
			posts.mount(postRoute)
		}

		commentRoute := api.Group("/comments")
		{
			commentRoute.Get("/post/:postId", v.listCommentsForPost)
			commentRoute.Get("/user/:userId", v.listCommentsBy)
			comments.mount(commentRoute)
		}

		reactionRoute := api.Group("/reactions")
		{
			reactionRoute.Get("/post/:postId", v.listReactionsForPost)
			reactionRoute.Get("/post/:postId/summary", v.countReactionsForPost)
			reactions.mount(reactionRoute)
		}

		followRoute := api.Group("/follows")
		{
			followRoute.Get("/followers/:userId", v.listFollowers)
			followRoute.Get("/following/:userId", v.listFollowing)
			follows.mount(followRoute)
		}

		messageRoute := api.Group("/messages")
		{
			messageRoute.Get("/conversation/:userA/:userB", v.getConversation)
			messageRoute.Get("/sent/:userId", v.listSentMessages)
			messageRoute.Get("/received/:userId", v.listReceivedMessages)
			messages.mount(messageRoute)
		}

		notificationRoute := api.Group("/notifications")
		{
			notificationRoute.Get("/user/:userId", v.listNotifications)
			notifications.mount(notificationRoute)
		}
	}
}
