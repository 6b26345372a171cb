package handler

import (
	"campusbooks/internal/usecase"
)

var (
	authHandler    *AuthHandler
	listingHandler *ListingHandler
	chatHandler    *ChatHandler
	mediaHandler   *MediaHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	listingUseCase *usecase.ListingUseCase,
	chatUseCase *usecase.ChatUseCase,
	feed *usecase.ConversationFeed,
) {
	authHandler = NewAuthHandler(authUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	chatHandler = NewChatHandler(chatUseCase, feed)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetMediaHandler() *MediaHandler {
	return mediaHandler
}
