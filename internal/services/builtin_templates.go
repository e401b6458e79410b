package services

// Built-in prompt skeletons, one per fixed publicity category. These are
// the availability fallback when the template table cannot serve a key;
// administrators normally manage templates in Postgres.

type builtinTemplate struct {
	Key            string
	Name           string
	PromptTemplate string
}

var builtinTemplates = map[string]builtinTemplate{
	"meeting": {
		Key:  "meeting",
		Name: "会议纪要",
		PromptTemplate: "你是一个专业的企业宣传稿撰写助手。请根据以下会议信息和参考材料，写一篇正式的会议纪要宣传稿。\n\n" +
			"【会议要素】\n主题：{title}\n时间：{date}\n地点：{location}\n参会人员：{attendees}\n内容摘要：{summary}\n\n" +
			"【参考材料】\n{context}\n\n" +
			"【要求】\n1. 使用HTML格式输出，只返回<body>标签内的内容。\n2. 标题使用<h2>标签，居中对齐。\n3. 正文分段清晰，使用<p>标签，每段开头空两格（使用&emsp;&emsp;）。\n4. 重点内容（如讲话要点）使用<strong>加粗。\n5. 语气庄重、客观。",
	},
	"training": {
		Key:  "training",
		Name: "培训活动",
		PromptTemplate: "你是一个专业的企业宣传稿撰写助手。请根据以下培训活动信息，写一篇生动的培训活动宣传稿。\n\n" +
			"【活动要素】\n主题：{title}\n时间：{date}\n地点：{location}\n讲师：{lecturer}\n内容摘要：{summary}\n\n" +
			"【参考材料】\n{context}\n\n" +
			"【要求】\n1. 使用HTML格式输出，只返回<body>标签内的内容。\n2. 标题使用<h2>标签，居中对齐。\n3. 正文分段清晰，使用<p>标签，每段开头空两格（使用&emsp;&emsp;）。\n4. 突出培训目的、现场氛围、学员收获。\n5. 语气积极向上。",
	},
	"inspection": {
		Key:  "inspection",
		Name: "领导检查",
		PromptTemplate: "你是一个专业的企业宣传稿撰写助手。请根据以下领导检查信息，写一篇正式的迎检宣传稿。\n\n" +
			"【检查要素】\n主题：{title}\n时间：{date}\n地点：{location}\n带队领导：{leader}\n陪同人员：{attendees}\n内容摘要：{summary}\n\n" +
			"【参考材料】\n{context}\n\n" +
			"【要求】\n1. 使用HTML格式输出，只返回<body>标签内的内容。\n2. 标题使用<h2>标签，居中对齐。\n3. 正文分段清晰，使用<p>标签，每段开头空两格（使用&emsp;&emsp;）。\n4. 重点描述检查过程、领导指示、后续整改或落实措施。\n5. 语气严谨。",
	},
	"bid_winning": {
		Key:  "bid_winning",
		Name: "中标喜报",
		PromptTemplate: "你是一个专业的企业宣传稿撰写助手。请根据以下中标信息，写一篇振奋人心的中标喜报。\n\n" +
			"【中标要素】\n项目名称：{title}\n时间：{date}\n地点：{location}\n项目介绍：{project_intro}\n内容摘要：{summary}\n\n" +
			"【参考材料】\n{context}\n\n" +
			"【要求】\n1. 使用HTML格式输出，只返回<body>标签内的内容。\n2. 标题使用<h2>标签，居中对齐。\n3. 正文分段清晰，使用<p>标签，每段开头空两格（使用&emsp;&emsp;）。\n4. 介绍项目概况、中标意义、团队努力。\n5. 语气热烈、自信。",
	},
	"project_progress": {
		Key:  "project_progress",
		Name: "项目进展",
		PromptTemplate: "你是一个专业的企业宣传稿撰写助手。请根据以下项目进展信息，写一篇项目通讯稿。\n\n" +
			"【项目要素】\n项目名称：{title}\n时间：{date}\n地点：{location}\n关键节点：{milestone}\n内容摘要：{summary}\n\n" +
			"【参考材料】\n{context}\n\n" +
			"【要求】\n1. 使用HTML格式输出，只返回<body>标签内的内容。\n2. 标题使用<h2>标签，居中对齐。\n3. 正文分段清晰，使用<p>标签，每段开头空两格（使用&emsp;&emsp;）。\n4. 描述施工现场情况、攻坚克难过程、节点意义。\n5. 语气务实、鼓舞人心。",
	},
	"innovation": {
		Key:  "innovation",
		Name: "科技创新",
		PromptTemplate: "你是一个专业的企业宣传稿撰写助手。请根据以下科技创新成果，写一篇科技成果宣传稿。\n\n" +
			"【创新要素】\n成果名称：{title}\n时间：{date}\n主要成果：{achievements}\n内容摘要：{summary}\n\n" +
			"【参考材料】\n{context}\n\n" +
			"【要求】\n1. 使用HTML格式输出，只返回<body>标签内的内容。\n2. 标题使用<h2>标签，居中对齐。\n3. 正文分段清晰，使用<p>标签，每段开头空两格（使用&emsp;&emsp;）。\n4. 介绍研发背景、技术难点、创新点、应用价值。\n5. 语气专业、具有前瞻性。",
	},
}
