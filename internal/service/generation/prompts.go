package generation

import "fmt"

const summaryTemplate = `Read the chat history between a mentor and a student and describe the student's learning journey in one or two sentences.
Mention the topic they are working on now, topics they struggled with, and topics they have mastered.
Reply with the summary only.

<CHAT_HISTORY>
%s
</CHAT_HISTORY>`

const replyTemplate = `You write replies on behalf of a mentor in a mentor-student messaging system.
Match the mentor's voice exactly as shown in the style examples: tone, phrasing, punctuation and emoji habits.
Use the student's journey to make the answer feel continuous with earlier conversations.
Reply with the message text only.

<MENTOR_STYLE_EXAMPLES>
%s
</MENTOR_STYLE_EXAMPLES>

<STUDENT_CONTEXT_SUMMARY>
%s
</STUDENT_CONTEXT_SUMMARY>

<CHAT_HISTORY>
%s
</CHAT_HISTORY>

<NEW_STUDENT_MESSAGE>
%s
</NEW_STUDENT_MESSAGE>`

const nudgeTemplate = `You write proactive follow-up messages on behalf of a mentor after something happens in a student's learning.
Match the mentor's voice as shown in the style examples.
Keep the message supportive and focused on learning; avoid personal or sensitive topics.
If the event looks inappropriate for a follow-up, send general encouragement instead.
Reply with the message text only.

<MENTOR_STYLE_EXAMPLES>
%s
</MENTOR_STYLE_EXAMPLES>

<TRIGGER_EVENT>
%s
</TRIGGER_EVENT>`

func summaryPrompt(history string) string {
	return fmt.Sprintf(summaryTemplate, history)
}

func replyPrompt(style, summary, history, studentMessage string) string {
	return fmt.Sprintf(replyTemplate, style, summary, history, studentMessage)
}

func nudgePrompt(style, event string) string {
	return fmt.Sprintf(nudgeTemplate, style, event)
}
